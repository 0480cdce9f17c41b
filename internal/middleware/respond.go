package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the same error shape the handlers use.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
