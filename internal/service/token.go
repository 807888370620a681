package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-cms/internal/cache"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/pkg/log"
)

type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// hashToken — SHA-256 хэш токена в base64url; в таком виде токены лежат в БД и кэше.
func hashToken(plain string) string {
	hashBytes := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}

// generateAccessToken генерирует access-токен.
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, email string, now time.Time) (string, error) {
	const op = "service.token.generateAccessToken"

	lg := log.From(ctx)

	claims := accessClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Auth.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Auth.Audience),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		lg.Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return signed, nil
}

// validateAccessToken валидирует access-токен и возвращает ID пользователя.
func (s *Service) validateAccessToken(tokenStr string) (uuid.UUID, string, error) {
	const op = "service.token.validateAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithAudience(s.cfg.Auth.Audience...),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, claims.Email, nil
}

// generateSessionToken создаёт новую сессию и возвращает исходный токен.
func (s *Service) generateSessionToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const (
		op          = "service.token.generateSessionToken"
		maxAttempts = 5
	)

	lg := log.From(ctx)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("session_rand_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)
		hash := hashToken(plain)

		now := time.Now().UTC()
		session := &models.Session{
			TokenHash: hash,
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.Auth.SessionTTL),
			Revoked:   false,
		}

		if err := s.storage.SaveSession(ctx, session); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Редкая коллизия — пробуем сгенерировать заново.
				continue
			}

			lg.Error("save_session_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}

		if s.scache != nil {
			entry := &cache.SessionEntry{
				UserID:    userID,
				Revoked:   false,
				ExpiresAt: session.ExpiresAt,
			}
			if err := s.scache.Set(ctx, hash, entry, s.cfg.Auth.SessionTTL); err != nil {
				// Кэш best-effort: сессия уже в БД.
				lg.Warn("session_cache_set_failed",
					slog.String("op", op),
					slog.String("err", err.Error()),
				)
			}
		}

		return plain, nil
	}

	lg.Error("session_collision_exceeded",
		slog.String("op", op),
	)

	return "", fmt.Errorf("%s: %w", op, ErrSessionCollision)
}

// validateSessionToken валидирует сессионный токен: сперва кэш, затем БД.
func (s *Service) validateSessionToken(ctx context.Context, plain string) (*models.Session, error) {
	const op = "service.token.validateSessionToken"

	lg := log.From(ctx)
	hash := hashToken(plain)
	now := time.Now().UTC()

	if s.scache != nil {
		entry, ok, err := s.scache.Get(ctx, hash)
		if err != nil {
			lg.Warn("session_cache_get_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		} else if ok {
			if entry.Revoked {
				return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
			}

			if now.After(entry.ExpiresAt) {
				return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
			}

			return &models.Session{
				TokenHash: hash,
				UserID:    entry.UserID,
				ExpiresAt: entry.ExpiresAt,
			}, nil
		}
	}

	session, err := s.storage.SessionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("session_lookup_not_found",
				slog.String("op", op),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		lg.Error("session_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if session.Revoked {
		lg.Warn("session_revoked",
			slog.String("op", op),
			slog.String("user_id", session.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if now.After(session.ExpiresAt) {
		lg.Warn("session_expired",
			slog.String("op", op),
			slog.String("user_id", session.UserID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	if s.scache != nil {
		entry := &cache.SessionEntry{
			UserID:    session.UserID,
			Revoked:   false,
			ExpiresAt: session.ExpiresAt,
		}
		if err := s.scache.Set(ctx, hash, entry, time.Until(session.ExpiresAt)); err != nil {
			lg.Warn("session_cache_set_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	return session, nil
}
