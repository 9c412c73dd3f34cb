package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/easygen/auth-service/internal/crypto"
	"github.com/easygen/auth-service/internal/models"
	"github.com/easygen/auth-service/internal/server/auth"
	"github.com/easygen/auth-service/internal/server/jwt"
	"github.com/easygen/auth-service/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users       map[string]*models.User // email -> User
	createError error
	getError    error
	pingError   error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, user := range m.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	for _, user := range m.users {
		if user.ID == userID {
			user.TokenVersion++
			user.UpdatedAt = time.Now()
			return user.TokenVersion, nil
		}
	}
	return 0, storage.ErrUserNotFound
}

func (m *mockUserStorage) Ping(ctx context.Context) error { return m.pingError }

func (m *mockUserStorage) Close() error { return nil }

func setupAuthService(store storage.UserStorage) *auth.Service {
	hasher := crypto.NewPasswordHasherWithCost(bcrypt.MinCost)
	codec := jwt.NewService("test-secret", 30*time.Minute)
	return auth.NewService(setupTestLogger(), store, hasher, codec)
}

func testCookieConfig() CookieConfig {
	return NewCookieConfig(false, 30*time.Minute)
}
