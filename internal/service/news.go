package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
	"github.com/pribylovaa/go-news-cms/pkg/log"
)

// CreateNewsInput — входные данные создания новости.
type CreateNewsInput struct {
	Title   string
	Content string
}

// UpdateNewsInput — частичное обновление новости.
// nil-поле означает «не менять».
type UpdateNewsInput struct {
	Title   *string
	Content *string
}

// ListNews возвращает новости в порядке вставки (с данными авторов).
func (s *Service) ListNews(ctx context.Context, opts models.ListOptions) ([]models.News, error) {
	const op = "service.news.ListNews"

	opts.Limit = s.clampLimit(opts.Limit)

	items, err := s.storage.ListNews(ctx, opts)
	if err != nil {
		log.From(ctx).Error("storage error on ListNews", "op", op, "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}

// NewsByID возвращает новость по идентификатору.
func (s *Service) NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "service.news.NewsByID"

	lg := log.From(ctx).With("op", op, "news_id", id.String())

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	news, err := s.storage.NewsByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on NewsByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return news, nil
}

// CreateNews создаёт новость от имени актора.
// Владелец фиксируется при создании и далее неизменяем.
func (s *Service) CreateNews(ctx context.Context, actor *models.User, input CreateNewsInput) (*models.News, error) {
	const op = "service.news.CreateNews"

	lg := log.From(ctx).With("op", op)

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if errs := ValidateNews(NewsPayload{
		Title:   ptr(input.Title),
		Content: ptr(input.Content),
	}, ModeCreate); len(errs) > 0 {
		lg.Warn("validation_failed")

		return nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: errs})
	}

	now := time.Now().UTC()
	news := &models.News{
		ID:        uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.SaveNews(ctx, news); err != nil {
		lg.Error("storage error on SaveNews", "err", err)

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return news, nil
}

// UpdateNews выполняет частичное обновление новости.
//
// Порядок: актор -> валидация -> загрузка -> авторизация -> запись.
// Не переданные поля не меняются.
func (s *Service) UpdateNews(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateNewsInput) (*models.News, error) {
	const op = "service.news.UpdateNews"

	lg := log.From(ctx).With("op", op, "news_id", id.String())

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if errs := ValidateNews(NewsPayload{
		Title:   input.Title,
		Content: input.Content,
	}, ModeUpdate); len(errs) > 0 {
		lg.Warn("validation_failed")

		return nil, fmt.Errorf("%s: %w", op, &ValidationError{Fields: errs})
	}

	target, err := s.storage.NewsByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")

			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on NewsByID", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if !canMutate(actor, target) {
		lg.Warn("permission denied", "actor_id", actor.ID.String())

		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	result, err := s.storage.UpdateNews(ctx, id, storage.NewsUpdate{
		Title:   input.Title,
		Content: input.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UpdateNews", "err", err)

			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}

// DeleteNews удаляет новость.
// Удалить новость может только её автор.
func (s *Service) DeleteNews(ctx context.Context, actor *models.User, id uuid.UUID) error {
	const op = "service.news.DeleteNews"

	lg := log.From(ctx).With("op", op, "news_id", id.String())

	if actor == nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	target, err := s.storage.NewsByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("news not found")

			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on NewsByID", "err", err)

			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if !canMutate(actor, target) {
		lg.Warn("permission denied", "actor_id", actor.ID.String())

		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.storage.DeleteNews(ctx, id); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DeleteNews", "err", err)

			return fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return nil
}
