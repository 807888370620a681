package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/pkg/log"
)

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListNews(r.Context(), models.ListOptions{})
	if err != nil {
		log.From(r.Context()).Error("list_news_failed", "err", err.Error())
		items = nil
	}

	h.render(w, r, "index", pageData{Title: "Главная", News: items})
}

func (h *Handlers) NewsNewPage(w http.ResponseWriter, r *http.Request) {
	if h.requireActor(w, r) == nil {
		return
	}

	h.render(w, r, "news_form", pageData{Title: "Добавить новость"})
}

func (h *Handlers) NewsNewSubmit(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"title":   r.PostFormValue("title"),
		"content": r.PostFormValue("content"),
	}

	_, err := h.svc.CreateNews(r.Context(), actor, service.CreateNewsInput{
		Title:   form["title"],
		Content: form["content"],
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.render(w, r, "news_form", pageData{
				Title:  "Добавить новость",
				Form:   form,
				Errors: verr.Fields,
			})
			return
		}

		setFlash(w, "Не удалось сохранить новость.")
		http.Redirect(w, r, "/news/new", http.StatusSeeOther)
		return
	}

	setFlash(w, "Ваша новость успешно добавлена!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) NewsEditPage(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		setFlash(w, "Новость не найдена.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	news, err := h.svc.NewsByID(r.Context(), id)
	if err != nil {
		setFlash(w, "Новость не найдена.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if news.AuthorID != actor.ID {
		setFlash(w, "Вы можете редактировать только свои новости.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, r, "news_form", pageData{
		Title: "Редактировать новость",
		Item:  news,
		Form: map[string]string{
			"title":   news.Title,
			"content": news.Content,
		},
	})
}

func (h *Handlers) NewsEditSubmit(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		setFlash(w, "Новость не найдена.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"title":   r.PostFormValue("title"),
		"content": r.PostFormValue("content"),
	}

	_, updErr := h.svc.UpdateNews(r.Context(), actor, id, service.UpdateNewsInput{
		Title:   ptr(form["title"]),
		Content: ptr(form["content"]),
	})
	if updErr != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(updErr, &verr):
			h.render(w, r, "news_form", pageData{
				Title:  "Редактировать новость",
				Item:   &models.News{ID: id},
				Form:   form,
				Errors: verr.Fields,
			})
		case errors.Is(updErr, service.ErrPermissionDenied):
			setFlash(w, "Вы можете редактировать только свои новости.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			setFlash(w, "Новость не найдена.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
		}
		return
	}

	setFlash(w, "Ваша новость успешно обновлена!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) NewsDelete(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		setFlash(w, "Новость не найдена.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.svc.DeleteNews(r.Context(), actor, id); err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			setFlash(w, "Вы можете удалить только свои новости.")
		} else {
			setFlash(w, "Новость не найдена.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	setFlash(w, "Новость успешно удалена!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func ptr(s string) *string {
	return &s
}
