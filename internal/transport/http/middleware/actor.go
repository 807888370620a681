package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pribylovaa/go-news-cms/internal/models"
)

// SessionCookieName — имя сессионной куки, общее для API и страниц.
const SessionCookieName = "session"

type actorKey struct{}
type sessionTokenKey struct{}

// ActorResolver резолвит актора по токену; реализуется сервисным слоем.
type ActorResolver interface {
	ActorFromAccessToken(ctx context.Context, accessToken string) (*models.User, error)
	ActorFromSession(ctx context.Context, sessionToken string) (*models.User, error)
}

// Actor резолвит текущего актора запроса и кладёт его в контекст.
//
// Источники идентичности (по порядку):
//  1. Authorization: Bearer <jwt> — access-токен (две точки в compact-формате);
//  2. Authorization: Bearer <opaque> — сессионный токен;
//  3. кука session — сессионный токен.
//
// Ошибки резолва не прерывают запрос: актор остаётся анонимным,
// защищённые операции ответят 401 сами.
func Actor(resolver ActorResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				// JWT compact-формат всегда содержит две точки;
				// в base64url-алфавите сессионного токена точек нет.
				if strings.Count(token, ".") == 2 {
					if actor, err := resolver.ActorFromAccessToken(ctx, token); err == nil {
						next.ServeHTTP(w, r.WithContext(withActor(ctx, actor)))
						return
					}
				} else {
					if actor, err := resolver.ActorFromSession(ctx, token); err == nil {
						ctx = withSessionToken(ctx, token)
						next.ServeHTTP(w, r.WithContext(withActor(ctx, actor)))
						return
					}
				}
			}

			if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
				if actor, rerr := resolver.ActorFromSession(ctx, c.Value); rerr == nil {
					ctx = withSessionToken(ctx, c.Value)
					next.ServeHTTP(w, r.WithContext(withActor(ctx, actor)))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) || len(auth) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

func withActor(ctx context.Context, actor *models.User) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom достаёт актора из контекста; nil — анонимный запрос.
func ActorFrom(ctx context.Context) *models.User {
	if v := ctx.Value(actorKey{}); v != nil {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}

	return nil
}

func withSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// SessionTokenFrom достаёт сессионный токен текущего запроса (для logout).
func SessionTokenFrom(ctx context.Context) string {
	if v := ctx.Value(sessionTokenKey{}); v != nil {
		if t, ok := v.(string); ok {
			return t
		}
	}

	return ""
}
