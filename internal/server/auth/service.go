package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/easygen/auth-service/internal/models"
	"github.com/easygen/auth-service/internal/server/jwt"
	"github.com/easygen/auth-service/internal/server/storage"
	"github.com/easygen/auth-service/internal/validation"
)

// Service errors translated to HTTP statuses at the handler boundary
var (
	// ErrEmailTaken indicates a signup against an already registered email
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrUnauthorized indicates a failed token or credential check
	// Причины (подпись, срок, устаревшая версия, исчезнувший пользователь)
	// не различаются наружу, детали остаются в серверных логах
	ErrUnauthorized = errors.New("unauthorized")
)

// TokenCodec signs and verifies session tokens
type TokenCodec interface {
	Sign(userID, email string, tokenVersion int64) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// Result объединяет данные пользователя и выпущенный сессионный токен
type Result struct {
	User  *models.User
	Token string
}

// Service является ядром аутентификации: регистрация, вход, выход
// и проверка токена на каждом запросе
// Безопасен для конкурентного использования, состояния между запросами не держит
type Service struct {
	logger *slog.Logger
	users  storage.UserStorage
	hasher PasswordHasher
	codec  TokenCodec
}

// NewService создает новый authentication service
func NewService(logger *slog.Logger, users storage.UserStorage, hasher PasswordHasher, codec TokenCodec) *Service {
	return &Service{
		logger: logger,
		users:  users,
		hasher: hasher,
		codec:  codec,
	}
}

// Signup регистрирует нового пользователя и выпускает первый токен
// Email нормализуется, пароль сохраняется только в виде bcrypt хеша,
// token_version нового пользователя равен 0
func (s *Service) Signup(ctx context.Context, email, name, password string) (*Result, error) {
	email = validation.NormalizeEmail(email)

	// Быстрая проверка на занятый email для чистого 409.
	// Настоящая гарантия уникальности - ограничение хранилища на insert
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		s.logger.WarnContext(ctx, "duplicate signup attempt", slog.String("email", email))
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		TokenVersion: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Гонка двух одинаковых signup: insert проиграл ограничению уникальности
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "duplicate signup attempt lost insert race", slog.String("email", email))
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.codec.Sign(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "signup successful",
		slog.String("email", user.Email),
		slog.String("user_id", user.ID))

	return &Result{User: user, Token: token}, nil
}

// ValidateCredentials проверяет пару email/пароль
// Возвращает nil для несуществующего пользователя, неверного пароля
// и ошибки хранилища одинаково; серверные логи различают эти случаи
func (s *Service) ValidateCredentials(ctx context.Context, email, password string) *models.User {
	email = validation.NormalizeEmail(email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.DebugContext(ctx, "login attempt for non-existent user", slog.String("email", email))
		} else {
			s.logger.ErrorContext(ctx, "user lookup failed during login", slog.Any("error", err))
		}
		return nil
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.DebugContext(ctx, "invalid password", slog.String("email", email))
		return nil
	}

	return user
}

// Login выпускает свежий токен для уже проверенного пользователя
// В claims попадает текущая сохраненная версия, а не значение из запроса
func (s *Service) Login(ctx context.Context, user *models.User) (*Result, error) {
	token, err := s.codec.Sign(user.ID, user.Email, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.InfoContext(ctx, "login successful",
		slog.String("email", user.Email),
		slog.String("user_id", user.ID))

	return &Result{User: user, Token: token}, nil
}

// AuthenticateToken проверяет сессионный токен и возвращает principal
// Отклоняет токен с неверной подписью, истекшим сроком, исчезнувшим
// пользователем или версией строго меньше сохраненной.
// Версия равная или большая принимается: сравнение именно <, а не !=
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		s.logger.WarnContext(ctx, "token verification failed", slog.Any("error", err))
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "token subject no longer exists", slog.String("user_id", claims.Subject))
		} else {
			s.logger.ErrorContext(ctx, "user lookup failed during token check", slog.Any("error", err))
		}
		return nil, ErrUnauthorized
	}

	if claims.TokenVersion < user.TokenVersion {
		s.logger.WarnContext(ctx, "stale token version",
			slog.String("user_id", user.ID),
			slog.Int64("token_version", claims.TokenVersion),
			slog.Int64("current_version", user.TokenVersion))
		return nil, ErrUnauthorized
	}

	return &models.Principal{UserID: user.ID, Email: user.Email}, nil
}

// Logout инвалидирует все выпущенные токены пользователя разом,
// атомарно увеличивая token_version на 1
// Повторные вызовы безвредны: каждый просто сдвигает счетчик дальше
func (s *Service) Logout(ctx context.Context, userID string) error {
	newVersion, err := s.users.IncrementTokenVersion(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Пользователь исчез после выпуска токена; выход все равно успешен
			s.logger.WarnContext(ctx, "logout for missing user", slog.String("user_id", userID))
			return nil
		}
		return fmt.Errorf("failed to increment token version: %w", err)
	}

	s.logger.InfoContext(ctx, "logout successful",
		slog.String("user_id", userID),
		slog.Int64("token_version", newVersion))

	return nil
}
