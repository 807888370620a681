package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-news-cms/internal/errors"
	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/middleware"
)

// LoginRequest — тело POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	user, pair, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, pair.SessionToken)
	writeJSON(w, http.StatusOK, AuthResponse{
		User:   userFromModel(user),
		Tokens: tokensFromPair(pair),
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionTokenFrom(r.Context())
	if token == "" {
		// Актор пришёл без сессии (или только с JWT) — отзывать нечего.
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	if err := h.svc.Logout(r.Context(), token); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
