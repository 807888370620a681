package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — серверная сессия пользователя.
//
// В БД хранится только SHA-256 хэш токена (base64url);
// исходный токен знает только клиент.
type Session struct {
	// TokenHash — хэш сессионного токена, первичный ключ.
	TokenHash string
	// UserID — владелец сессии.
	UserID uuid.UUID
	// CreatedAt — время выпуска (UTC).
	CreatedAt time.Time
	// ExpiresAt — время истечения (UTC).
	ExpiresAt time.Time
	// Revoked — сессия отозвана (logout/удаление аккаунта).
	Revoked bool
}
