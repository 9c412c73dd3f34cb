package handlers

import (
	"log/slog"
	"net/http"

	"github.com/easygen/auth-service/internal/server/storage"
	"github.com/easygen/auth-service/pkg/api"
)

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	users   storage.UserStorage
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, users storage.UserStorage, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		users:   users,
		version: version,
	}
}

// Health обрабатывает GET /v1/health
// Проверяет доступность хранилища
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.users.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage ping failed", slog.Any("error", err))
		WriteJSON(h.logger, w, api.HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	WriteJSON(h.logger, w, api.HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
