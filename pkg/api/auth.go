package api

// SignupRequest представляет запрос на регистрацию нового пользователя
type SignupRequest struct {
	Email    string `json:"email"`    // email пользователя
	Name     string `json:"name"`     // отображаемое имя (минимум 3 символа)
	Password string `json:"password"` // пароль (минимум 8 символов, буква + цифра + спецсимвол)
}

// SigninRequest представляет запрос на аутентификацию
type SigninRequest struct {
	Email    string `json:"email"`    // email пользователя
	Password string `json:"password"` // пароль
}

// UserInfo представляет публичные данные пользователя в ответах авторизации
type UserInfo struct {
	ID    string `json:"id"`    // UUID пользователя
	Email string `json:"email"` // email в нижнем регистре
	Name  string `json:"name"`  // отображаемое имя
}

// AuthResponse представляет ответ на успешный signup/signin
type AuthResponse struct {
	Message string   `json:"message"` // сообщение об успехе
	User    UserInfo `json:"user"`    // данные пользователя без пароля
}

// MessageResponse представляет ответ, содержащий только сообщение
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"` // HTTP статус
	Message    string `json:"message"`    // описание ошибки
	Error      string `json:"error"`      // название статуса (Bad Request, Conflict, ...)
	Timestamp  string `json:"timestamp"`  // время ответа, RFC3339
	Path       string `json:"path"`       // путь запроса
}
