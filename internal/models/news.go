package models

import (
	"time"

	"github.com/google/uuid"
)

// News — доменная сущность новости.
//
// Особенности:
//   - ID — UUIDv4;
//   - AuthorID неизменяем после создания;
//   - Временные метки — в UTC.
type News struct {
	// ID — уникальный идентификатор новости.
	ID uuid.UUID
	// Title — заголовок (1..100 символов).
	Title string
	// Content — полный текст новости, длина не ограничена.
	Content string
	// AuthorID — владелец новости, фиксируется при создании.
	AuthorID uuid.UUID
	// Author — данные автора для выдачи наружу (заполняется JOIN-ом в листингах).
	Author *Author
	// CreatedAt — время создания записи (UTC).
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения (UTC).
	UpdatedAt time.Time
}

// Author — срез данных пользователя, попадающий в публичную выдачу новости.
type Author struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

// OwnedBy реализует политику владения: новостью владеет её автор.
func (n *News) OwnedBy() uuid.UUID {
	return n.AuthorID
}

// ListOptions — параметры выборки списков доменных сущностей.
//
// Особенности:
//   - при Limit == 0 выборка полная, без усечения;
//   - явный Limit ограничен сверху config.LimitsConfig.MaxLimit;
//   - сортировка фиксирована: created_at, id — порядок вставки.
type ListOptions struct {
	Limit int
}
