package handler

import (
	"net/http"

	"github.com/otion-app/otion/internal/ctxkeys"
	"github.com/otion-app/otion/internal/service"
)

type AdviceHandler struct {
	stylistService *service.StylistService
}

func NewAdviceHandler(stylistService *service.StylistService) *AdviceHandler {
	return &AdviceHandler{
		stylistService: stylistService,
	}
}

func (h *AdviceHandler) Advise(w http.ResponseWriter, r *http.Request) {
	var req service.AdviceRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result, err := h.stylistService.Advise(r.Context(), ctxkeys.UserID(r.Context()), req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "advice": result})
}

func (h *AdviceHandler) Basic(w http.ResponseWriter, r *http.Request) {
	var req service.AdviceRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result, err := h.stylistService.Basic(req)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "advice": result})
}
