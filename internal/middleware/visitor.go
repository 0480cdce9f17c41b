package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/otion-app/otion/internal/ctxkeys"
)

const VisitorCookieName = "otion_visitor"

// Visitor gives every browser a stable anonymous id, reusing the cookie when it
// holds a valid UUID and issuing a new one otherwise.
func Visitor(maxAge time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			cookie, err := r.Cookie(VisitorCookieName)
			if err == nil {
				if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     VisitorCookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(maxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ctxkeys.WithVisitorID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
