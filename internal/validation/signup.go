package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// EmailPattern определяет допустимый формат email
// Упрощенная проверка: локальная часть, @, домен с точкой
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	// MinNameLen минимальная длина отображаемого имени
	MinNameLen = 3
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// PasswordSpecialChars допустимые спецсимволы пароля
	PasswordSpecialChars = "@$!%*#?&"
)

// NormalizeEmail приводит email к каноническому виду
// Нижний регистр, без окружающих пробелов
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail проверяет, что email соответствует допустимому формату
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("please provide a valid email address")
	}

	return nil
}

// ValidateName проверяет требования к отображаемому имени
// Минимум 3 символа после обрезки пробелов
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("name is required")
	}

	if len(name) < MinNameLen {
		return fmt.Errorf("name must be at least %d characters long", MinNameLen)
	}

	return nil
}

// ValidatePassword проверяет требования к паролю
// Минимум 8 символов, хотя бы одна буква, одна цифра и один спецсимвол из @$!%*#?&
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	if !hasLetter || !hasDigit || !hasSpecial {
		return fmt.Errorf("password must contain at least one letter, one number, and one special character (%s)", PasswordSpecialChars)
	}

	return nil
}
