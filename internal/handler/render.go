package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/otion-app/otion/internal/model"
)

// maxBodyBytes covers a 5MB image once base64 encoded, plus the other fields.
const maxBodyBytes = 8 << 20

type errorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("render json failed", "error", err)
	}
}

// renderError maps an error to a status and writes {"ok": false, ...}.
// Only AppError messages reach the client; anything else is logged and reported generically.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		appErr = model.NewStoreError(err)
	}

	status := statusFor(appErr.Code)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"code", appErr.Code,
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	renderJSON(w, status, errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

func statusFor(code string) int {
	switch code {
	case model.CodeValidation:
		return http.StatusBadRequest
	case model.CodeAuth, model.CodeUnauthorized:
		return http.StatusUnauthorized
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads exactly one JSON value into v. Unknown fields, trailing data
// and oversized bodies are validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err == nil {
		if dec.Decode(&struct{}{}) != io.EOF {
			return model.NewValidationError("요청 본문에는 하나의 JSON 객체만 보낼 수 있습니다.")
		}
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return model.NewValidationError("요청 본문이 너무 큽니다.")
	}
	if errors.Is(err, io.EOF) {
		return model.NewValidationError("요청 본문이 비어 있습니다.")
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return model.NewValidationError("알 수 없는 필드입니다: " + strings.Trim(field, `"`))
	}
	return model.NewValidationError("요청 형식이 올바르지 않습니다.")
}
