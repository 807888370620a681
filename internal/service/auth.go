package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/pkg/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
)

// TokenPair — результат успешной аутентификации:
// короткоживущий access-токен для API и сессионный токен (кука/Bearer).
type TokenPair struct {
	AccessToken     string
	SessionToken    string
	AccessExpiresAt time.Time
}

// RegisterInput — входные данные регистрации.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register регистрирует нового пользователя и сразу открывает сессию.
//
// Порядок: валидация -> проверка уникальности email -> bcrypt-хэш ->
// сохранение (уникальный индекс БД страхует гонку) -> выпуск токенов.
// Дубликат email всегда отклоняется (ErrEmailTaken).
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, *TokenPair, error) {
	const op = "service.auth.Register"

	lg := log.From(ctx).With("op", op)

	if errs := ValidateUser(UserPayload{
		FirstName: ptr(input.FirstName),
		LastName:  ptr(input.LastName),
		Email:     ptr(input.Email),
		Password:  ptr(input.Password),
	}, ModeCreate); len(errs) > 0 {
		lg.Warn("validation_failed")

		return nil, nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: errs})
	}

	normEmail := normalizeEmail(input.Email)

	_, err := s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		lg.Warn("email_taken", "email", normEmail)

		return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		lg.Error("storage error on UserByEmail", "err", err)

		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		lg.Error("hash_password_failed", "err", err)

		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        normEmail,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		lg.Error("storage error on SaveUser", "err", err)

		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Login выполняет вход по email+пароль.
// Неверный формат email, неизвестный пользователь и неверный пароль
// неразличимы снаружи (ErrInvalidCredentials); сессия при ошибке не создаётся.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	const op = "service.auth.Login"

	lg := log.From(ctx).With("op", op)

	normEmail := normalizeEmail(email)
	if !validEmail(normEmail) || len(password) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		lg.Error("storage error on UserByEmail", "err", err)

		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, pair, nil
}

// Logout отзывает сессию по её токену.
func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	const op = "service.auth.Logout"

	lg := log.From(ctx).With("op", op)
	hash := hashToken(sessionToken)

	revoked, err := s.storage.RevokeSession(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("storage error on RevokeSession", "err", err)

		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.scache != nil {
		if cerr := s.scache.MarkRevoked(ctx, hash); cerr != nil {
			lg.Warn("session_cache_revoke_failed", "err", cerr)
		}
	}

	if !revoked {
		return fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	return nil
}

// ActorFromAccessToken резолвит актора по access-токену (Bearer).
// Пользователь перечитывается из БД: удалённый аккаунт перестаёт
// аутентифицироваться сразу, не дожидаясь истечения JWT.
func (s *Service) ActorFromAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "service.auth.ActorFromAccessToken"

	uid, _, err := s.validateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		log.From(ctx).Error("storage error on UserByID", "op", op, "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return user, nil
}

// ActorFromSession резолвит актора по сессионному токену (кука или Bearer).
func (s *Service) ActorFromSession(ctx context.Context, sessionToken string) (*models.User, error) {
	const op = "service.auth.ActorFromSession"

	session, err := s.validateSessionToken(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		log.From(ctx).Error("storage error on UserByID", "op", op, "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return user, nil
}

// issueTokenPair выпускает access-токен и открывает новую сессию.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user.ID, user.Email, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessionToken, err := s.generateSessionToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &TokenPair{
		AccessToken:     accessToken,
		SessionToken:    sessionToken,
		AccessExpiresAt: now.Add(s.cfg.Auth.AccessTokenTTL),
	}, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
