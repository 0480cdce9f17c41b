package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/otion-app/otion/internal/model"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := h.db.PingContext(ctx)
	if err != nil {
		renderJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "database": "unreachable"})
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "database": "ok"})
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{
		Code:    model.CodeNotFound,
		Message: "요청한 경로를 찾을 수 없습니다.",
	})
}
