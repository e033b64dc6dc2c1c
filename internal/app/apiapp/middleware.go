package apiapp

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/enums"
	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/handlers"
)

func ApplyMiddlewares(r chiRouter, log *zap.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(requestLogger(log))
}

// AuthMiddleware resolves the session cookie to an identity. The lookup
// slides the session expiry, so any authenticated request keeps the
// session alive.
func AuthMiddleware(authService *authsvc.Service, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService == nil {
				envelope.WriteError(w, http.StatusInternalServerError, "auth service is unavailable")
				return
			}

			cookie, err := r.Cookie(handlers.SessionCookieName)
			if err != nil || cookie.Value == "" {
				envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, err := authService.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if log != nil {
					log.Debug("session validation failed", zap.Error(err))
				}
				envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := authsvc.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the session cookie when one is present but
// never rejects the request; public endpoints use it so logged-in
// callers still get their identity.
func OptionalAuth(authService *authsvc.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService != nil {
				if cookie, err := r.Cookie(handlers.SessionCookieName); err == nil && cookie.Value != "" {
					if identity, err := authService.Authenticate(r.Context(), cookie.Value); err == nil {
						r = r.WithContext(authsvc.WithIdentity(r.Context(), identity))
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole gates a subtree behind a minimum role. It must run after
// AuthMiddleware; a request with no identity is rejected outright.
func RequireRole(min enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authsvc.IdentityFromContext(r.Context())
			if !ok {
				envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !identity.Role.AtLeast(min) {
				envelope.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if log != nil {
				log.Info("http_request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Duration("duration", time.Since(start)),
				)
			}
		})
	}
}

type chiRouter interface {
	Use(middlewares ...func(http.Handler) http.Handler)
}
