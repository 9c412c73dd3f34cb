package models

import "time"

// User представляет учетную запись пользователя в системе
type User struct {
	ID           string    `json:"id"`            // UUID пользователя
	Email        string    `json:"email"`         // email в нижнем регистре, уникальный
	Name         string    `json:"name"`          // отображаемое имя (минимум 3 символа)
	PasswordHash string    `json:"password_hash"` // bcrypt хеш пароля; только для хранения, наружу не отдается
	TokenVersion int64     `json:"token_version"` // счетчик инвалидации сессий, по умолчанию 0
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
}

// Principal is the minimal authenticated identity attached to a request
// after a token or credential check. It is never persisted.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
