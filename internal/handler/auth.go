package handler

import (
	"log/slog"
	"net/http"

	"github.com/otion-app/otion/internal/ctxkeys"
	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/service"
)

type userResponse struct {
	OK   bool            `json:"ok"`
	User *model.AuthUser `json:"user"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input service.SignUpInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.authService.SignUp(r.Context(), input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	err = h.authService.CreateSession(r.Context(), w, user.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, userResponse{OK: true, User: user})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input service.SignInInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.authService.SignIn(r.Context(), input)
	if err != nil {
		if model.ErrorCode(err) == model.CodeAuth {
			slog.Warn("sign in failed", "ip", r.RemoteAddr)
		}
		renderError(w, r, err)
		return
	}

	err = h.authService.CreateSession(r.Context(), w, user.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("user signed in", "user_id", user.ID)
	renderJSON(w, http.StatusOK, userResponse{OK: true, User: user})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	err := h.authService.SignOut(r.Context(), w, r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		renderError(w, r, model.NewUnauthorizedError("로그인이 필요합니다."))
		return
	}

	renderJSON(w, http.StatusOK, userResponse{OK: true, User: user})
}
