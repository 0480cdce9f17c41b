package handler

import (
	"net/http"
	"strconv"

	"github.com/otion-app/otion/internal/ctxkeys"
	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/service"
)

type PostHandler struct {
	postService     *service.PostService
	reactionService *service.ReactionService
}

func NewPostHandler(postService *service.PostService, reactionService *service.ReactionService) *PostHandler {
	return &PostHandler{
		postService:     postService,
		reactionService: reactionService,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePostInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	post, err := h.postService.Create(r.Context(), ctxkeys.UserID(r.Context()), input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusCreated, map[string]any{"ok": true, "post": post})
}

// List handles ?search=&minTemp=&maxTemp=&sort=&band=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minTemp, err := optionalInt(q.Get("minTemp"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	maxTemp, err := optionalInt(q.Get("maxTemp"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	posts, err := h.postService.List(r.Context(), service.PostQuery{
		Search:  q.Get("search"),
		MinTemp: minTemp,
		MaxTemp: maxTemp,
		Sort:    q.Get("sort"),
		Band:    q.Get("band"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "posts": posts})
}

func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "post": post})
}

type reactInput struct {
	Type string `json:"type"`
}

func (h *PostHandler) React(w http.ResponseWriter, r *http.Request) {
	var input reactInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result, err := h.reactionService.React(r.Context(), r.PathValue("id"), ctxkeys.VisitorID(r.Context()), input.Type)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"ok": true, "reaction": result})
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, model.NewValidationError("기온 값은 정수여야 합니다.")
	}
	return &v, nil
}
