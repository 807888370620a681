package handlers

import (
	"time"

	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/service"
)

// UserResponse — публичное представление пользователя.
// Хэш пароля наружу не сериализуется никогда.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthorResponse — срез данных автора в выдаче новости.
type AuthorResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewsResponse — публичное представление новости.
type NewsResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Author    *AuthorResponse `json:"author,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TokenResponse — результат успешной аутентификации.
type TokenResponse struct {
	AccessToken     string    `json:"access_token"`
	SessionToken    string    `json:"session_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// AuthResponse — пользователь вместе с токенами (login/register).
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

func userFromModel(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func usersFromModels(users []models.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, userFromModel(&users[i]))
	}

	return result
}

func newsFromModel(n *models.News) NewsResponse {
	resp := NewsResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}

	if n.Author != nil {
		resp.Author = &AuthorResponse{
			ID:        n.Author.ID.String(),
			FirstName: n.Author.FirstName,
			LastName:  n.Author.LastName,
		}
	}

	return resp
}

func newsListFromModels(items []models.News) []NewsResponse {
	result := make([]NewsResponse, 0, len(items))
	for i := range items {
		result = append(result, newsFromModel(&items[i]))
	}

	return result
}

func tokensFromPair(p *service.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:     p.AccessToken,
		SessionToken:    p.SessionToken,
		AccessExpiresAt: p.AccessExpiresAt,
	}
}
