package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easygen/auth-service/pkg/api"
)

func TestRecoveryMiddleware(t *testing.T) {
	logger := setupTestLogger()

	t.Run("panic turns into 500 envelope", func(t *testing.T) {
		panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		handler := RecoveryMiddleware(logger)(panicking)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/profile", nil)
		rec := httptest.NewRecorder()

		require.NotPanics(t, func() {
			handler.ServeHTTP(rec, req)
		})

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var errResp api.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
		assert.Equal(t, "Internal server error", errResp.Message)
		assert.Equal(t, "/v1/users/profile", errResp.Path)
		// Детали паники клиенту не раскрываются
		assert.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("normal request passes through", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		handler := RecoveryMiddleware(logger)(inner)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	logger := setupTestLogger()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	handler := LoggingMiddleware(logger)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// Обертка не искажает ответ
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
