// service содержит бизнес-логику CMS:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов и сессий,
// CRUD-операции над новостями и профилями с проверкой владения
// и работу с хранилищем через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются сентинелами и далее маппятся
//     транспортом на HTTP-статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-news-cms/internal/cache"
	"github.com/pribylovaa/go-news-cms/internal/config"
	"github.com/pribylovaa/go-news-cms/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные (валидация форм/JSON).
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/сессия) некорректен по формату/подписи
	// или отсутствует в хранилище. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена/сессии истёк.
	// Транспорт: HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenRevoked — сессия отозвана (logout/удаление аккаунта) и недействительна
	// независимо от срока. Транспорт: HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUnauthenticated — операция требует аутентификации, актор отсутствует.
	// Транспорт: HTTP 401 (страницы — redirect на /login).
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermissionDenied — актор не владеет ресурсом.
	// Транспорт: HTTP 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound — сущность не найдена.
	// Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 400 (контракт API фиксирует конфликт на 400).
	ErrEmailTaken = errors.New("email already taken")

	// ErrSessionCollision — исчерпаны попытки сгенерировать уникальный сессионный токен
	// (редкий случай коллизий при сохранении хэша в БД после нескольких ретраев).
	// Транспорт: HTTP 500.
	ErrSessionCollision = errors.New("session token collision")

	// ErrInternal — внутренняя ошибка сервиса (хранилище/инфраструктура).
	// Транспорт: HTTP 500.
	ErrInternal = errors.New("internal")
)

// ValidationError — ошибка валидации с картой поле->сообщение.
// Совместима с errors.Is(err, ErrInvalidArgument), чтобы транспорт
// мог маппить её по общей схеме сентинелов.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Service описывает бизнес-логику CMS.
type Service struct {
	storage storage.Storage
	cfg     *config.Config
	scache  cache.SessionCache // может быть nil, если кэш не сконфигурирован
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg *config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// SetSessionCache устанавливает кэш сессий (опционально).
func (s *Service) SetSessionCache(c cache.SessionCache) {
	s.scache = c
}

// clampLimit ограничивает явно переданный лимит листинга сверху.
// Нулевой (отсутствующий) лимит означает полную выборку и не подменяется.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return 0
	}

	if s.cfg.Limits.MaxLimit > 0 && limit > s.cfg.Limits.MaxLimit {
		return s.cfg.Limits.MaxLimit
	}

	return limit
}
