package web

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/go-news-cms/internal/service"
)

func (h *Handlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	h.render(w, r, "profile", pageData{
		Title: "Профиль",
		Form: map[string]string{
			"first_name": actor.FirstName,
			"last_name":  actor.LastName,
			"email":      actor.Email,
		},
	})
}

func (h *Handlers) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := map[string]string{
		"first_name": r.PostFormValue("first_name"),
		"last_name":  r.PostFormValue("last_name"),
		"email":      r.PostFormValue("email"),
	}

	input := service.UpdateUserInput{
		FirstName: ptr(form["first_name"]),
		LastName:  ptr(form["last_name"]),
		Email:     ptr(form["email"]),
	}
	// Пустое поле пароля означает «не менять».
	if pw := r.PostFormValue("password"); pw != "" {
		input.Password = ptr(pw)
	}

	if _, err := h.svc.UpdateUser(r.Context(), actor, actor.ID, input); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, "profile", pageData{
				Title:  "Профиль",
				Form:   form,
				Errors: verr.Fields,
			})
		case errors.Is(err, service.ErrEmailTaken):
			h.render(w, r, "profile", pageData{
				Title:  "Профиль",
				Form:   form,
				Errors: map[string]string{"email": "Этот email уже зарегистрирован."},
			})
		default:
			setFlash(w, "Не удалось обновить профиль.")
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
		}
		return
	}

	setFlash(w, "Профиль успешно обновлён.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handlers) ProfileDelete(w http.ResponseWriter, r *http.Request) {
	actor := h.requireActor(w, r)
	if actor == nil {
		return
	}

	if err := h.svc.DeleteUser(r.Context(), actor, actor.ID); err != nil {
		setFlash(w, "Не удалось удалить аккаунт.")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	// Все сессии пользователя удалены каскадом вместе с аккаунтом.
	h.clearSessionCookie(w)
	setFlash(w, "Ваш аккаунт удалён.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
