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

// CreateNewsRequest — тело POST /news.
type CreateNewsRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNewsRequest — тело PUT /news/{id}; отсутствующее поле не меняется.
type UpdateNewsRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	var opts models.ListOptions
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			apierrors.WriteError(w, r, service.ErrInvalidArgument)
			return
		}

		opts.Limit = n
	}

	items, err := h.svc.ListNews(r.Context(), opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsListFromModels(items))
}

func (h *Handlers) GetNews(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	news, err := h.svc.NewsByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsFromModel(news))
}

func (h *Handlers) CreateNews(w http.ResponseWriter, r *http.Request) {
	var in CreateNewsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	news, err := h.svc.CreateNews(r.Context(), actor, service.CreateNewsInput{
		Title:   in.Title,
		Content: in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newsFromModel(news))
}

func (h *Handlers) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateNewsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	news, err := h.svc.UpdateNews(r.Context(), actor, id, service.UpdateNewsInput{
		Title:   in.Title,
		Content: in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newsFromModel(news))
}

func (h *Handlers) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	actor := middleware.ActorFrom(r.Context())
	if err := h.svc.DeleteNews(r.Context(), actor, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
