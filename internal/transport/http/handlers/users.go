package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/go-news-cms/internal/errors"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/middleware"
)

// RegisterRequest — тело POST /users.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateUserRequest — тело PUT /users/{id}; отсутствующее поле не меняется.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	var opts models.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}

		opts.Limit = n
	}

	users, err := h.svc.ListUsers(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, usersFromModels(users))
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	user, err := h.svc.UserByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFromModel(user))
}

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in RegisterRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	user, pair, err := h.svc.Register(r.Context(), service.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setSessionCookie(w, pair.SessionToken)
	writeJSON(w, http.StatusCreated, AuthResponse{
		User:   userFromModel(user),
		Tokens: tokensFromPair(pair),
	})
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	user, err := h.svc.UpdateUser(r.Context(), actor, id, service.UpdateUserInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, userFromModel(user))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	if err := h.svc.DeleteUser(r.Context(), actor, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// Сессии удалены каскадом; куку чистим явно.
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
