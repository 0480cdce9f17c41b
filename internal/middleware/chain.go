package middleware

import "net/http"

// Chain wraps h so that middlewares run first to last on the way in.
//
//	handler := Chain(mux,
//	    SecurityHeaders(true), // outermost
//	    RequestLogging,
//	    Metrics,               // innermost, sees r.Pattern after routing
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
