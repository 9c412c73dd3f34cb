package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/easygen/auth-service/pkg/api"
)

// WriteJSON отправляет JSON ответ
func WriteJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет ошибку в едином конверте
// {statusCode, message, error, timestamp, path}
func WriteError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	resp := api.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Error:      http.StatusText(statusCode),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	}
	WriteJSON(logger, w, resp, statusCode)
}
