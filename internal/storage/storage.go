// storage задаёт контракты работы с хранилищем и сентинельные ошибки,
// на которые опирается сервисный слой.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-cms/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/новость/сессия).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/токен сессии).
	ErrAlreadyExists = errors.New("already exists")
	// ErrExpired — сущность просрочена (сессия).
	ErrExpired = errors.New("expired")
	// ErrRevoked — сущность отозвана (сессия).
	ErrRevoked = errors.New("revoked")
)

// UserUpdate — частичное обновление пользователя: обновляются только
// поля с непустыми указателями, updated_at сдвигается всегда.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

// NewsUpdate — частичное обновление новости.
type NewsUpdate struct {
	Title   *string
	Content *string
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (нижний регистр).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ListUsers возвращает пользователей в порядке вставки.
	ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, error)
	// UpdateUser выполняет частичный апдейт и возвращает свежую запись.
	UpdateUser(ctx context.Context, id uuid.UUID, update UserUpdate) (*models.User, error)
	// DeleteUserCascade в одной транзакции удаляет новости пользователя,
	// его сессии и самого пользователя.
	DeleteUserCascade(ctx context.Context, id uuid.UUID) error
}

// NewsStorage выполняет операции над новостями.
type NewsStorage interface {
	// SaveNews создаёт новую новость.
	SaveNews(ctx context.Context, news *models.News) error
	// NewsByID находит новость по ID (с данными автора).
	NewsByID(ctx context.Context, id uuid.UUID) (*models.News, error)
	// ListNews возвращает новости в порядке вставки (с данными автора).
	ListNews(ctx context.Context, opts models.ListOptions) ([]models.News, error)
	// UpdateNews выполняет частичный апдейт и возвращает свежую запись.
	UpdateNews(ctx context.Context, id uuid.UUID, update NewsUpdate) (*models.News, error)
	// DeleteNews удаляет новость по ID.
	DeleteNews(ctx context.Context, id uuid.UUID) error
}

// SessionStorage выполняет операции над сессиями.
type SessionStorage interface {
	// SaveSession сохраняет новую сессию.
	SaveSession(ctx context.Context, session *models.Session) error
	// SessionByHash находит сессию по хэшу токена.
	SessionByHash(ctx context.Context, hash string) (*models.Session, error)
	// RevokeSession пытается отозвать сессию; false — уже отозвана.
	RevokeSession(ctx context.Context, hash string) (bool, error)
	// RevokeUserSessions отзывает все активные сессии пользователя
	// и возвращает хэши отозванных токенов (для инвалидации кэша).
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) ([]string, error)
	// DeleteExpiredSessions удаляет все просроченные сессии.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	NewsStorage
	SessionStorage
	Close()
}
