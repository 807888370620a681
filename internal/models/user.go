// models содержит доменные сущности сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — доменная сущность пользователя.
//
// Особенности:
//   - ID — UUIDv4;
//   - Email хранится в нижнем регистре (уникальность без учёта регистра);
//   - PasswordHash — bcrypt, наружу никогда не сериализуется;
//   - Временные метки — в UTC.
type User struct {
	// ID — уникальный идентификатор пользователя.
	ID uuid.UUID
	// FirstName — имя (1..50 символов).
	FirstName string
	// LastName — фамилия (1..50 символов).
	LastName string
	// Email — логин пользователя, уникален.
	Email string
	// PasswordHash — bcrypt-хэш пароля.
	PasswordHash string
	// CreatedAt — время создания записи (UTC).
	CreatedAt time.Time
	// UpdatedAt — время последнего изменения (UTC).
	UpdatedAt time.Time
}

// OwnedBy реализует политику владения: профилем владеет сам пользователь.
func (u *User) OwnedBy() uuid.UUID {
	return u.ID
}
