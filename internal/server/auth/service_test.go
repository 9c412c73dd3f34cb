package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/easygen/auth-service/internal/crypto"
	"github.com/easygen/auth-service/internal/models"
	"github.com/easygen/auth-service/internal/server/jwt"
	"github.com/easygen/auth-service/internal/server/storage"
)

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users          map[string]*models.User // email -> User
	createError    error
	getError       error
	incrementError error
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
	if m.incrementError != nil {
		return 0, m.incrementError
	}
	for _, user := range m.users {
		if user.ID == userID {
			user.TokenVersion++
			user.UpdatedAt = time.Now()
			return user.TokenVersion, nil
		}
	}
	return 0, storage.ErrUserNotFound
}

func (m *mockUserStorage) Ping(ctx context.Context) error { return nil }

func (m *mockUserStorage) Close() error { return nil }

func setupTestService(store storage.UserStorage) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hasher := crypto.NewPasswordHasherWithCost(bcrypt.MinCost)
	codec := jwt.NewService("test-secret", 30*time.Minute)
	return NewService(logger, store, hasher, codec)
}

func TestService_Signup_Success(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	result, err := svc.Signup(ctx, "T@E.com", "Tess", "Password1!")
	require.NoError(t, err)
	require.NotNil(t, result)

	// Email нормализован, версия токена нулевая
	assert.Equal(t, "t@e.com", result.User.Email)
	assert.Equal(t, "Tess", result.User.Name)
	assert.Equal(t, int64(0), result.User.TokenVersion)
	assert.NotEmpty(t, result.User.ID)

	// Пароль сохранен только в виде хеша
	assert.NotEqual(t, "Password1!", result.User.PasswordHash)
	assert.NotEmpty(t, result.User.PasswordHash)

	// Выпущенный токен валиден и несет версию 0
	codec := jwt.NewService("test-secret", 30*time.Minute)
	claims, err := codec.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.Subject)
	assert.Equal(t, "t@e.com", claims.Email)
	assert.Equal(t, int64(0), claims.TokenVersion)
}

func TestService_Signup_Conflict(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	_, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.NoError(t, err)

	// Повторный signup с тем же email в другом регистре
	_, err = svc.Signup(ctx, "T@E.COM", "Other", "Password1!")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Signup_InsertRaceConflict(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	// Пре-проверка не видит пользователя, но insert проигрывает
	// ограничению уникальности (гонка конкурентных signup)
	store.createError = storage.ErrUserAlreadyExists
	svc := setupTestService(store)

	_, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Signup_StorageError(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	store.getError = errors.New("db down")
	svc := setupTestService(store)

	_, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestService_ValidateCredentials(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	_, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.NoError(t, err)

	t.Run("valid credentials return stored user", func(t *testing.T) {
		user := svc.ValidateCredentials(ctx, "t@e.com", "Password1!")
		require.NotNil(t, user)
		assert.Equal(t, "t@e.com", user.Email)
		assert.Equal(t, int64(0), user.TokenVersion)
	})

	t.Run("normalized email resolves the same record", func(t *testing.T) {
		user := svc.ValidateCredentials(ctx, "T@E.com", "Password1!")
		assert.NotNil(t, user)
	})

	t.Run("wrong password returns nil", func(t *testing.T) {
		user := svc.ValidateCredentials(ctx, "t@e.com", "WrongPass1!")
		assert.Nil(t, user)
	})

	t.Run("unknown email returns nil", func(t *testing.T) {
		user := svc.ValidateCredentials(ctx, "nobody@e.com", "Password1!")
		assert.Nil(t, user)
	})

	t.Run("storage error is indistinguishable from bad credentials", func(t *testing.T) {
		broken := newMockUserStorage()
		broken.getError = errors.New("db down")
		brokenSvc := setupTestService(broken)

		user := brokenSvc.ValidateCredentials(ctx, "t@e.com", "Password1!")
		assert.Nil(t, user)
	})
}

func TestService_Login_EmbedsStoredVersion(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	result, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.NoError(t, err)

	// Сдвигаем версию несколько раз
	for i := 0; i < 3; i++ {
		_, err = store.IncrementTokenVersion(ctx, result.User.ID)
		require.NoError(t, err)
	}

	user := svc.ValidateCredentials(ctx, "t@e.com", "Password1!")
	require.NotNil(t, user)

	loginResult, err := svc.Login(ctx, user)
	require.NoError(t, err)

	codec := jwt.NewService("test-secret", 30*time.Minute)
	claims, err := codec.Verify(loginResult.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.TokenVersion)
}

func TestService_AuthenticateToken(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	result, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.NoError(t, err)

	t.Run("fresh token is accepted", func(t *testing.T) {
		principal, err := svc.AuthenticateToken(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, principal.UserID)
		assert.Equal(t, "t@e.com", principal.Email)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.AuthenticateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token with foreign signature is rejected", func(t *testing.T) {
		foreign := jwt.NewService("another-secret", 30*time.Minute)
		token, err := foreign.Sign(result.User.ID, "t@e.com", 0)
		require.NoError(t, err)

		_, err = svc.AuthenticateToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("version below stored is rejected, equal accepted", func(t *testing.T) {
		_, err := store.IncrementTokenVersion(ctx, result.User.ID)
		require.NoError(t, err)

		// Старый токен несет версию 0, в хранилище уже 1
		_, err = svc.AuthenticateToken(ctx, result.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)

		// Токен с текущей версией проходит
		codec := jwt.NewService("test-secret", 30*time.Minute)
		fresh, err := codec.Sign(result.User.ID, "t@e.com", 1)
		require.NoError(t, err)

		principal, err := svc.AuthenticateToken(ctx, fresh)
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, principal.UserID)
	})

	t.Run("version above stored is accepted", func(t *testing.T) {
		// Сравнение строго <, а не !=: большая версия не считается ошибкой
		codec := jwt.NewService("test-secret", 30*time.Minute)
		ahead, err := codec.Sign(result.User.ID, "t@e.com", 99)
		require.NoError(t, err)

		_, err = svc.AuthenticateToken(ctx, ahead)
		assert.NoError(t, err)
	})

	t.Run("vanished user is rejected", func(t *testing.T) {
		codec := jwt.NewService("test-secret", 30*time.Minute)
		token, err := codec.Sign("no-such-user", "ghost@e.com", 0)
		require.NoError(t, err)

		_, err = svc.AuthenticateToken(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	result, err := svc.Signup(ctx, "t@e.com", "Tess", "Password1!")
	require.NoError(t, err)

	// До выхода токен валиден
	_, err = svc.AuthenticateToken(ctx, result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.User.ID))

	// Токен, выпущенный до выхода, всегда отклоняется
	_, err = svc.AuthenticateToken(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Повторный выход безвреден и продолжает сдвигать счетчик
	require.NoError(t, svc.Logout(ctx, result.User.ID))
	user, err := store.GetUserByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.TokenVersion)
}

func TestService_Logout_MissingUser(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	svc := setupTestService(store)

	// Пользователь исчез после выпуска токена; выход все равно успешен
	assert.NoError(t, svc.Logout(ctx, "no-such-user"))
}

func TestService_Logout_StorageError(t *testing.T) {
	ctx := context.Background()
	store := newMockUserStorage()
	store.incrementError = errors.New("db down")
	svc := setupTestService(store)

	assert.Error(t, svc.Logout(ctx, "user-1"))
}
