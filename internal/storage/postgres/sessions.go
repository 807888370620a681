package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
)

// SaveSession сохраняет новую сессию.
// Ошибки: storage.ErrAlreadyExists при коллизии хэша токена.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	const op = "storage.postgres.SaveSession"

	query := `
		INSERT INTO sessions(token_hash, user_id, created_at, expires_at, revoked)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.Exec(ctx, query,
		session.TokenHash,
		session.UserID,
		session.CreatedAt,
		session.ExpiresAt,
		session.Revoked,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SessionByHash находит сессию по хэшу токена.
func (s *Storage) SessionByHash(ctx context.Context, hash string) (*models.Session, error) {
	const op = "storage.postgres.SessionByHash"

	query := `
		SELECT token_hash, user_id, created_at, expires_at, revoked
		FROM sessions
		WHERE token_hash = $1
	`

	var session models.Session
	err := s.db.QueryRow(ctx, query, hash).Scan(
		&session.TokenHash,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.Revoked,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session.CreatedAt = session.CreatedAt.UTC()
	session.ExpiresAt = session.ExpiresAt.UTC()

	return &session, nil
}

// RevokeSession пытается отозвать сессию.
// Возвращает true, если сессия была активна и стала отозванной;
// false — если уже была отозвана. storage.ErrNotFound — если сессии нет.
func (s *Storage) RevokeSession(ctx context.Context, hash string) (bool, error) {
	const op = "storage.postgres.RevokeSession"

	query := `
		UPDATE sessions
		SET revoked = TRUE
		WHERE token_hash = $1 AND revoked = FALSE
	`

	tag, err := s.db.Exec(ctx, query, hash)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		// Либо сессии нет, либо она уже отозвана — различаем отдельным чтением.
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE token_hash = $1)`, hash).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}

		if !exists {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return false, nil
	}

	return true, nil
}

// RevokeUserSessions отзывает все активные сессии пользователя.
// Возвращает хэши отозванных токенов, чтобы вызывающий мог
// инвалидировать записи в кэше.
func (s *Storage) RevokeUserSessions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "storage.postgres.RevokeUserSessions"

	query := `
		UPDATE sessions
		SET revoked = TRUE
		WHERE user_id = $1 AND revoked = FALSE
		RETURNING token_hash
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		hashes = append(hashes, hash)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return hashes, nil
}

// DeleteExpiredSessions удаляет все просроченные сессии.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	const op = "storage.postgres.DeleteExpiredSessions"

	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
