package service

import (
	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-cms/internal/models"
)

// Owned — ресурс с владельцем. Реализуется доменными моделями
// (новостью владеет автор, профилем — сам пользователь).
type Owned interface {
	OwnedBy() uuid.UUID
}

// canMutate — единая политика авторизации мутаций:
// разрешено тогда и только тогда, когда актор аутентифицирован
// и совпадает с владельцем ресурса. Административного обхода нет.
func canMutate(actor *models.User, resource Owned) bool {
	return actor != nil && actor.ID == resource.OwnedBy()
}
