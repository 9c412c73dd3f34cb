package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/easygen/auth-service/internal/server/storage"
	"github.com/easygen/auth-service/pkg/api"
)

// UserHandler обрабатывает запросы профиля пользователя
type UserHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
}

// NewUserHandler создает новый handler для пользователей
func NewUserHandler(logger *slog.Logger, users storage.UserStorage) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// Profile обрабатывает GET /v1/users/profile
// Профиль текущего пользователя; запись могла исчезнуть после выпуска токена
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		WriteError(h.logger, w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.users.GetUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "profile not found", slog.String("user_id", principal.UserID))
			WriteError(h.logger, w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "profile retrieved", slog.String("email", user.Email))

	resp := api.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}
