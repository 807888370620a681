package middleware

import (
	"log/slog"
	"net/http"

	apierrors "github.com/pribylovaa/go-news-cms/internal/errors"
	"github.com/pribylovaa/go-news-cms/internal/service"
	logctx "github.com/pribylovaa/go-news-cms/pkg/log"
)

// Recover перехватывает panic, конвертирует в 500/internal и пишет унифицированный ответ.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					// Безопасно логируем факт паники; детали наружу не отдаем.
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)
					apierrors.WriteError(w, r, service.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
