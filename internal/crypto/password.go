package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost количество раундов bcrypt
// Подбор хеша намеренно дорогой, ~10 адаптивных раундов
const BcryptCost = 10

// PasswordHasher выполняет одностороннее хеширование паролей
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher создает hasher со стандартной стоимостью
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: BcryptCost}
}

// NewPasswordHasherWithCost создает hasher с заданной стоимостью (для тестов)
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	return &PasswordHasher{cost: cost}
}

// Hash возвращает bcrypt хеш пароля
// Соль генерируется заново при каждом вызове, два хеша одного пароля различаются
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify проверяет пароль против сохраненного хеша
// Любая ошибка bcrypt (несовпадение, поврежденный хеш) деградирует в false:
// поврежденное состояние не должно превращаться ни в обход аутентификации, ни в панику
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
