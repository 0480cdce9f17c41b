package middleware

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

// RequireJSON rejects state-changing API requests whose body is not JSON.
// A cross-site HTML form cannot produce an application/json request.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			slog.Warn("rejected non-json request",
				"path", r.URL.Path,
				"method", r.Method,
				"content_type", r.Header.Get("Content-Type"),
				"ip", getClientIP(r),
			)
			writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "JSON 형식으로 요청해주세요.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
