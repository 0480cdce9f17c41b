package routes

import (
	"net/http"

	"github.com/otion-app/otion/internal/app"
	"github.com/otion-app/otion/internal/handler"
	"github.com/otion-app/otion/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	posts := handler.NewPostHandler(app.PostService, app.ReactionService)
	advice := handler.NewAdviceHandler(app.StylistService)
	wardrobe := handler.NewWardrobeHandler(app.WardrobeService)
	weather := handler.NewWeatherHandler(app.Weather)

	rateLimit := middleware.RateLimit(app.AuthLimiter)

	visitor := middleware.Visitor(app.Cfg.VisitorCookieMaxAge, app.Cfg.SecureCookies())

	mux := http.NewServeMux()

	// ============================================================================
	// OPERATIONS
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// ============================================================================
	// AUTH
	// ============================================================================

	mux.HandleFunc("POST /api/auth/signup", rateLimit(auth.SignUp))
	mux.HandleFunc("POST /api/auth/signin", rateLimit(auth.SignIn))
	mux.HandleFunc("POST /api/auth/signout", auth.SignOut)
	mux.HandleFunc("GET /api/auth/me", auth.Me)

	// ============================================================================
	// COMMUNITY
	// ============================================================================

	mux.HandleFunc("GET /api/posts", posts.List)
	mux.HandleFunc("GET /api/posts/{id}", posts.Show)
	mux.HandleFunc("POST /api/posts", middleware.RequireAuth(posts.Create))
	mux.Handle("POST /api/posts/{id}/reactions", visitor(http.HandlerFunc(posts.React)))

	// ============================================================================
	// STYLIST
	// ============================================================================

	mux.HandleFunc("POST /api/advice", advice.Advise)
	mux.HandleFunc("POST /api/advice/basic", advice.Basic)
	mux.HandleFunc("GET /api/weather", weather.Current)

	// ============================================================================
	// WARDROBE
	// ============================================================================

	mux.HandleFunc("GET /api/wardrobe", middleware.RequireAuth(wardrobe.List))
	mux.HandleFunc("POST /api/wardrobe", middleware.RequireAuth(wardrobe.Add))
	mux.HandleFunc("DELETE /api/wardrobe/{id}", middleware.RequireAuth(wardrobe.Delete))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", health.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.SecurityHeaders(app.Cfg.SecureCookies()),
		middleware.RequestLogging,
		middleware.RequireJSON,
		middleware.Auth(app.AuthService),
		middleware.Metrics, // Must be last: reads r.Pattern set by the mux
	)

	return handler
}
