package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
)

// userColumns — единый список колонок таблицы users,
// используемый в SELECT/RETURNING, чтобы гарантировать одинаковый порядок сканирования.
const userColumns = `
id, first_name, last_name, email, password_hash, created_at, updated_at
`

// scanUser сканирует одну строку пользователя в доменную модель.
func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User

	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	return &user, nil
}

// SaveUser создаёт нового пользователя.
// Ошибки: storage.ErrAlreadyExists при конфликте уникальности email, иные — как есть.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(id, first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
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

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// ListUsers возвращает пользователей в порядке вставки (created_at, id).
// Limit <= 0 означает полную выборку без LIMIT.
func (s *Storage) ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, error) {
	const op = "storage.postgres.ListUsers"

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at, id
	`

	var args []any
	if opts.Limit > 0 {
		query += ` LIMIT $1`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		users = append(users, *user)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return users, nil
}

// UpdateUser выполняет частичный апдейт: обновляет только поля,
// указанные непустыми pointer-полями, и всегда сдвигает updated_at = now().
// Ошибки: storage.ErrNotFound при отсутствии записи,
// storage.ErrAlreadyExists при конфликте уникальности email.
func (s *Storage) UpdateUser(ctx context.Context, id uuid.UUID, update storage.UserUpdate) (*models.User, error) {
	const op = "storage.postgres.UpdateUser"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 5)
	count := 1

	if update.FirstName != nil {
		count++
		sets = append(sets, fmt.Sprintf("first_name = $%d", count))
		args = append(args, *update.FirstName)
	}

	if update.LastName != nil {
		count++
		sets = append(sets, fmt.Sprintf("last_name = $%d", count))
		args = append(args, *update.LastName)
	}

	if update.Email != nil {
		count++
		sets = append(sets, fmt.Sprintf("email = $%d", count))
		args = append(args, *update.Email)
	}

	if update.PasswordHash != nil {
		count++
		sets = append(sets, fmt.Sprintf("password_hash = $%d", count))
		args = append(args, *update.PasswordHash)
	}

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), userColumns)

	allArgs := append([]any{id}, args...)

	user, err := scanUser(s.db.QueryRow(ctx, q, allArgs...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// DeleteUserCascade в одной транзакции удаляет новости пользователя,
// его сессии и самого пользователя. Каскад выполнен явными шагами:
// частичный результат снаружи не виден (commit либо всё, либо ничего).
// Ошибки: storage.ErrNotFound, если пользователя нет.
func (s *Storage) DeleteUserCascade(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteUserCascade"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM news WHERE author_id = $1`, id); err != nil {
		return fmt.Errorf("%s: delete news: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("%s: delete sessions: %w", op, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: delete user: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}
