package middleware

import (
	"log/slog"
	"net/http"

	"github.com/otion-app/otion/internal/ctxkeys"
	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/service"
)

// Auth resolves the session cookie and adds the signed-in user to the context.
// Stale cookies are cleared by the auth service; guests pass through untouched.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authService.CurrentUser(r.Context(), w, r)
			if err != nil {
				slog.Error("failed to resolve session", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects guests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, model.CodeUnauthorized, "로그인이 필요합니다.")
			return
		}
		next(w, r)
	}
}
