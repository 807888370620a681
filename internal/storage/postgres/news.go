package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/storage"
)

// newsColumns — единый список колонок таблицы news.
const newsColumns = `
id, title, content, author_id, created_at, updated_at
`

// scanNews сканирует одну строку новости без данных автора.
func scanNews(row pgx.Row) (*models.News, error) {
	var news models.News

	if err := row.Scan(
		&news.ID,
		&news.Title,
		&news.Content,
		&news.AuthorID,
		&news.CreatedAt,
		&news.UpdatedAt,
	); err != nil {
		return nil, err
	}

	news.CreatedAt = news.CreatedAt.UTC()
	news.UpdatedAt = news.UpdatedAt.UTC()

	return &news, nil
}

// scanNewsWithAuthor сканирует строку новости, дополненную JOIN-ом по автору.
func scanNewsWithAuthor(row pgx.Row) (*models.News, error) {
	var news models.News
	var author models.Author

	if err := row.Scan(
		&news.ID,
		&news.Title,
		&news.Content,
		&news.AuthorID,
		&news.CreatedAt,
		&news.UpdatedAt,
		&author.FirstName,
		&author.LastName,
	); err != nil {
		return nil, err
	}

	news.CreatedAt = news.CreatedAt.UTC()
	news.UpdatedAt = news.UpdatedAt.UTC()

	author.ID = news.AuthorID
	news.Author = &author

	return &news, nil
}

// SaveNews создаёт новую новость.
func (s *Storage) SaveNews(ctx context.Context, news *models.News) error {
	const op = "storage.postgres.SaveNews"

	query := `
		INSERT INTO news(id, title, content, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.Exec(ctx, query,
		news.ID,
		news.Title,
		news.Content,
		news.AuthorID,
		news.CreatedAt,
		news.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// NewsByID возвращает новость по идентификатору вместе с данными автора.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	const op = "storage.postgres.NewsByID"

	query := `
		SELECT n.id, n.title, n.content, n.author_id, n.created_at, n.updated_at,
		       u.first_name, u.last_name
		FROM news n
		JOIN users u ON u.id = n.author_id
		WHERE n.id = $1
	`

	news, err := scanNewsWithAuthor(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// ListNews возвращает новости в порядке вставки (created_at, id) с данными авторов.
// Limit <= 0 означает полную выборку без LIMIT.
func (s *Storage) ListNews(ctx context.Context, opts models.ListOptions) ([]models.News, error) {
	const op = "storage.postgres.ListNews"

	query := `
		SELECT n.id, n.title, n.content, n.author_id, n.created_at, n.updated_at,
		       u.first_name, u.last_name
		FROM news n
		JOIN users u ON u.id = n.author_id
		ORDER BY n.created_at, n.id
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

	var items []models.News
	for rows.Next() {
		news, scanErr := scanNewsWithAuthor(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		items = append(items, *news)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}

// UpdateNews выполняет частичный апдейт: обновляет только поля,
// указанные непустыми pointer-полями, и всегда сдвигает updated_at = now().
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) UpdateNews(ctx context.Context, id uuid.UUID, update storage.NewsUpdate) (*models.News, error) {
	const op = "storage.postgres.UpdateNews"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 3)
	count := 1

	if update.Title != nil {
		count++
		sets = append(sets, fmt.Sprintf("title = $%d", count))
		args = append(args, *update.Title)
	}

	if update.Content != nil {
		count++
		sets = append(sets, fmt.Sprintf("content = $%d", count))
		args = append(args, *update.Content)
	}

	q := fmt.Sprintf(`UPDATE news SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), newsColumns)

	allArgs := append([]any{id}, args...)

	news, err := scanNews(s.db.QueryRow(ctx, q, allArgs...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return news, nil
}

// DeleteNews удаляет новость по ID.
// Ошибки: storage.ErrNotFound, если записи нет.
func (s *Storage) DeleteNews(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteNews"

	tag, err := s.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
