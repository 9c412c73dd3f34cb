package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer значение claim iss для всех выпускаемых токенов
const Issuer = "easygen-auth"

// Claims представляет JWT claims сессионного токена
// Subject содержит UUID пользователя
type Claims struct {
	Email        string `json:"email"`         // email пользователя
	TokenVersion int64  `json:"token_version"` // версия токена на момент выпуска
	jwt.RegisteredClaims
}

// Service выпускает и проверяет сессионные токены (HS256)
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService создает новый JWT service
// secret должен быть криптографически стойкой случайной строкой
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL возвращает время жизни выпускаемых токенов
// Используется транспортом, чтобы cookie истекала вместе с токеном
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Sign создает подписанный токен с claims {sub, email, token_version}
func (s *Service) Sign(userID, email string, tokenVersion int64) (string, error) {
	now := time.Now()

	claims := Claims{
		Email:        email,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify валидирует и парсит токен
// Возвращает ошибку при неверной подписи, неверном алгоритме,
// поврежденной структуре или истекшем сроке действия
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
