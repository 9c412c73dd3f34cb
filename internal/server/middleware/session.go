package middleware

import (
	"log/slog"
	"net/http"

	"github.com/easygen/auth-service/internal/server/auth"
	"github.com/easygen/auth-service/internal/server/handlers"
)

// SessionMiddleware создает middleware для проверки сессионного токена
// Токен извлекается строго из cookie access_token; значение токена не логируется
func SessionMiddleware(logger *slog.Logger, authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := handlers.TokenFromRequest(r)
			if token == "" {
				logger.Warn("missing session cookie", "path", r.URL.Path)
				handlers.WriteError(logger, w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// Проверяем токен: подпись, срок, существование пользователя,
			// актуальность token_version. Состояние перечитывается из
			// хранилища на каждом запросе, отозванная сессия не переживает отзыв
			principal, err := authService.AuthenticateToken(r.Context(), token)
			if err != nil {
				handlers.WriteError(logger, w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// Добавляем principal в контекст запроса
			ctx := handlers.ContextWithPrincipal(r.Context(), principal)

			logger.Debug("user authenticated", "user_id", principal.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
