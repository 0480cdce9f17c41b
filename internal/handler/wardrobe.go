package handler

import (
	"net/http"

	"github.com/otion-app/otion/internal/ctxkeys"
	"github.com/otion-app/otion/internal/service"
)

type WardrobeHandler struct {
	wardrobeService *service.WardrobeService
}

func NewWardrobeHandler(wardrobeService *service.WardrobeService) *WardrobeHandler {
	return &WardrobeHandler{
		wardrobeService: wardrobeService,
	}
}

func (h *WardrobeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.wardrobeService.List(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "items": items})
}

func (h *WardrobeHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input service.WardrobeInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	item, err := h.wardrobeService.Add(r.Context(), ctxkeys.UserID(r.Context()), input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, map[string]any{"ok": true, "item": item})
}

func (h *WardrobeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.wardrobeService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
