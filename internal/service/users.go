package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/pkg/log"
)

// UpdateUserInput — частичное обновление профиля.
// nil-поле означает «не менять»; переданное поле проходит валидацию.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// UserByID возвращает пользователя по идентификатору.
//
// Поведение:
//   - при отсутствии записи возвращает ErrNotFound;
//   - ошибки стораджа/БД маппятся в ErrInternal.
func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.users.UserByID"

	lg := log.From(ctx).With("op", op, "user_id", id.String())

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return user, nil
}

// ListUsers возвращает пользователей в порядке вставки.
func (s *Service) ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, error) {
	const op = "service.users.ListUsers"

	opts.Limit = s.clampLimit(opts.Limit)

	users, err := s.storage.ListUsers(ctx, opts)
	if err != nil {
		log.From(ctx).Error("storage error on ListUsers", "op", op, "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return users, nil
}

// UpdateUser выполняет частичное обновление профиля.
//
// Порядок (единый для всех мутаций): актор -> валидация -> загрузка цели ->
// авторизация -> уникальность email -> атомарная запись.
//
// Правила:
//   - редактировать профиль может только сам пользователь (ErrPermissionDenied);
//   - смена email проверяется на занятость другим пользователем (ErrEmailTaken),
//     уникальный индекс БД страхует гонку;
//   - смена пароля перехэшируется bcrypt-ом.
func (s *Service) UpdateUser(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	const op = "service.users.UpdateUser"

	lg := log.From(ctx).With("op", op, "user_id", id.String())

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if errs := ValidateUser(UserPayload{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	}, ModeUpdate); len(errs) > 0 {
		lg.Warn("validation_failed")

		return nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: errs})
	}

	target, err := s.storage.UserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if !canMutate(actor, target) {
		lg.Warn("permission denied", "actor_id", actor.ID.String())

		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	upd := storage.UserUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	if input.Email != nil {
		normEmail := normalizeEmail(*input.Email)

		// Проверяем, не занят ли новый email другим пользователем.
		other, err := s.storage.UserByEmail(ctx, normEmail)
		if err == nil && other.ID != target.ID {
			lg.Warn("email_taken", "email", normEmail)

			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			lg.Error("storage error on UserByEmail", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		upd.Email = &normEmail
	}

	if input.Password != nil {
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			lg.Error("hash_password_failed", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}

		upd.PasswordHash = &hashed
	}

	result, err := s.storage.UpdateUser(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrAlreadyExists):
			// Гонка со второй сменой email — индекс БД решает.
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		default:
			lg.Error("storage error on UpdateUser", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// DeleteUser удаляет аккаунт вместе со всеми его новостями и сессиями.
//
// Правила:
//   - удалить аккаунт может только сам пользователь;
//   - перед каскадом все сессии пользователя отзываются, а их записи
//     в кэше помечаются revoked, чтобы закэшированные сессии умерли
//     сразу, не дожидаясь TTL;
//   - каскад (новости -> сессии -> пользователь) выполняется одной транзакцией,
//     после коммита сессии актора мертвы.
func (s *Service) DeleteUser(ctx context.Context, actor *models.User, id uuid.UUID) error {
	const op = "service.users.DeleteUser"

	lg := log.From(ctx).With("op", op, "user_id", id.String())

	if actor == nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	target, err := s.storage.UserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")

			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)

			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if !canMutate(actor, target) {
		lg.Warn("permission denied", "actor_id", actor.ID.String())

		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	hashes, err := s.storage.RevokeUserSessions(ctx, id)
	if err != nil {
		lg.Error("storage error on RevokeUserSessions", "err", err)

		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.scache != nil && len(hashes) > 0 {
		// Кэш best-effort: в БД сессии уже отозваны и сейчас будут удалены.
		if cerr := s.scache.MarkRevoked(ctx, hashes...); cerr != nil {
			lg.Warn("session_cache_revoke_failed", "err", cerr)
		}
	}

	if err := s.storage.DeleteUserCascade(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteUserCascade", "err", err)

			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	lg.Info("user deleted")

	return nil
}
