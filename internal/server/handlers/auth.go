package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/easygen/auth-service/internal/server/auth"
	"github.com/easygen/auth-service/internal/validation"
	"github.com/easygen/auth-service/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	auth   *auth.Service
	cookie CookieConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, authService *auth.Service, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   authService,
		cookie: cookie,
	}
}

// Signup обрабатывает POST /v1/auth/signup
// Регистрация нового пользователя, в ответе устанавливается сессионная cookie
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signup request", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	// Валидация полей
	if err := validation.ValidateEmail(validation.NormalizeEmail(req.Email)); err != nil {
		WriteError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		WriteError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		WriteError(h.logger, w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.auth.Signup(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			WriteError(h.logger, w, r, http.StatusConflict, "User with this email already exists")
			return
		}
		h.logger.ErrorContext(ctx, "signup failed", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusInternalServerError, "Failed to complete signup")
		return
	}

	SetSessionCookie(w, h.cookie, result.Token)

	resp := api.AuthResponse{
		Message: "User created successfully",
		User: api.UserInfo{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
		},
	}

	WriteJSON(h.logger, w, resp, http.StatusCreated)
}

// Signin обрабатывает POST /v1/auth/signin
// Аутентификация по email и паролю
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signin request", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		WriteError(h.logger, w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	// Неверный пароль, неизвестный email и сбой хранилища
	// наружу выглядят одинаково
	user := h.auth.ValidateCredentials(ctx, req.Email, req.Password)
	if user == nil {
		WriteError(h.logger, w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	result, err := h.auth.Login(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "login failed", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusInternalServerError, "Failed to complete login")
		return
	}

	SetSessionCookie(w, h.cookie, result.Token)

	resp := api.AuthResponse{
		Message: "Login successful",
		User: api.UserInfo{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
		},
	}

	WriteJSON(h.logger, w, resp, http.StatusOK)
}

// Logout обрабатывает POST /v1/auth/logout
// Инвалидирует все токены пользователя и сбрасывает cookie
// Требует валидной сессии (session middleware)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		WriteError(h.logger, w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.auth.Logout(ctx, principal.UserID); err != nil {
		h.logger.ErrorContext(ctx, "logout failed", slog.Any("error", err))
		WriteError(h.logger, w, r, http.StatusInternalServerError, "Failed to complete logout")
		return
	}

	ClearSessionCookie(w, h.cookie)

	WriteJSON(h.logger, w, api.MessageResponse{Message: "Logout successful"}, http.StatusOK)
}
