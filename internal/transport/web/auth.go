package web

import (
	"errors"
	"net/http"

	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/middleware"
)

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, r, "login", pageData{Title: "Вход"})
}

func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	_, pair, err := h.svc.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		setFlash(w, "Неправильный email или пароль")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.setSessionCookie(w, pair.SessionToken)
	setFlash(w, "Вы успешно вошли в систему!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionTokenFrom(r.Context()); token != "" {
		// Ошибку отзыва на страницах не показываем: кука всё равно гасится.
		_ = h.svc.Logout(r.Context(), token)
	}

	h.clearSessionCookie(w)
	setFlash(w, "Вы вышли из системы.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, r, "register", pageData{Title: "Регистрация"})
}

func (h *Handlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
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

	_, pair, err := h.svc.Register(r.Context(), service.RegisterInput{
		FirstName: form["first_name"],
		LastName:  form["last_name"],
		Email:     form["email"],
		Password:  r.PostFormValue("password"),
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(w, r, "register", pageData{
				Title:  "Регистрация",
				Form:   form,
				Errors: verr.Fields,
			})
		case errors.Is(err, service.ErrEmailTaken):
			h.render(w, r, "register", pageData{
				Title:  "Регистрация",
				Form:   form,
				Errors: map[string]string{"email": "Этот email уже зарегистрирован."},
			})
		default:
			setFlash(w, "Не удалось зарегистрироваться, попробуйте ещё раз.")
			http.Redirect(w, r, "/register", http.StatusSeeOther)
		}
		return
	}

	h.setSessionCookie(w, pair.SessionToken)
	setFlash(w, "Поздравляем, вы успешно зарегистрированы!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
