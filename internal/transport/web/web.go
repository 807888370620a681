// Package web — страничная поверхность поверх того же сервисного слоя,
// что и JSON API: html/template, формы, flash-сообщения и редиректы.
// Правила валидации и авторизации идентичны API.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-news-cms/internal/config"
	"github.com/pribylovaa/go-news-cms/internal/models"
	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/middleware"
	"github.com/pribylovaa/go-news-cms/pkg/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handlers — зависимости страничной поверхности.
type Handlers struct {
	svc          *service.Service
	tmpl         *template.Template
	sessionTTL   time.Duration
	cookieSecure bool
}

func New(svc *service.Service, cfg config.AuthConfig) *Handlers {
	return &Handlers{
		svc:          svc,
		tmpl:         template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		sessionTTL:   cfg.SessionTTL,
		cookieSecure: cfg.CookieSecure,
	}
}

// Register вешает страничные маршруты на роутер.
func (h *Handlers) Register(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Get("/logout", h.Logout)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.RegisterSubmit)
	r.Get("/news/new", h.NewsNewPage)
	r.Post("/news/new", h.NewsNewSubmit)
	r.Get("/news/{id}/edit", h.NewsEditPage)
	r.Post("/news/{id}/edit", h.NewsEditSubmit)
	r.Post("/news/{id}/delete", h.NewsDelete)
	r.Get("/profile", h.ProfilePage)
	r.Post("/profile", h.ProfileSubmit)
	r.Post("/profile/delete", h.ProfileDelete)
}

// pageData — общая модель для всех шаблонов.
type pageData struct {
	Title  string
	Actor  *models.User
	Flash  string
	Form   map[string]string
	Errors map[string]string
	News   []models.News
	Item   *models.News
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Actor = middleware.ActorFrom(r.Context())
	if data.Flash == "" {
		data.Flash = popFlash(w, r)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.From(r.Context()).Error("template_render_failed",
			"template", name,
			"err", err.Error(),
		)
	}
}

// requireActor возвращает актора или уводит на /login с flash.
func (h *Handlers) requireActor(w http.ResponseWriter, r *http.Request) *models.User {
	actor := middleware.ActorFrom(r.Context())
	if actor == nil {
		setFlash(w, "Для доступа к этой странице необходимо войти в систему.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}

	return actor
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
