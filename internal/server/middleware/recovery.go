package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/easygen/auth-service/internal/server/handlers"
)

// RecoveryMiddleware создает middleware для восстановления после паники
// Перехватывает panic, логирует стек вызовов и возвращает 500 в стандартном конверте
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Получаем стек вызовов для диагностики
					stackTrace := debug.Stack()

					// Логируем критическую ошибку со стеком
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"remote_addr", r.RemoteAddr,
						"stack", string(stackTrace),
					)

					// Возвращаем generic ошибку клиенту (не раскрываем детали)
					handlers.WriteError(logger, w, r, http.StatusInternalServerError, "Internal server error")
				}
			}()

			// Передаем управление следующему обработчику
			next.ServeHTTP(w, r)
		})
	}
}
