package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-news-cms/internal/config"
	"github.com/pribylovaa/go-news-cms/internal/service"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/handlers"
	"github.com/pribylovaa/go-news-cms/internal/transport/http/middleware"
	"github.com/pribylovaa/go-news-cms/internal/transport/web"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler: JSON API на /api и страницы на корне.
func NewRouter(svc *service.Service, cfg *config.Config, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Actor(svc),           // разрешаем актора из Bearer/куки; анонимы проходят дальше
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc, cfg.Auth)
	api := chi.NewRouter()
	registerAPIRoutes(api, h)
	root.Mount("/api", api)

	pages := web.New(svc, cfg.Auth)
	pages.Register(root)

	return root
}

// registerAPIRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerAPIRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)

	// users
	r.Get("/users", h.ListUsers)
	r.Post("/users", h.RegisterUser)
	r.Get("/users/{id}", h.GetUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Delete("/users/{id}", h.DeleteUser)

	// news
	r.Get("/news", h.ListNews)
	r.Post("/news", h.CreateNews)
	r.Get("/news/{id}", h.GetNews)
	r.Put("/news/{id}", h.UpdateNews)
	r.Delete("/news/{id}", h.DeleteNews)
}
