package api

// ProfileResponse представляет профиль текущего пользователя
type ProfileResponse struct {
	ID        string `json:"id"`        // UUID пользователя
	Email     string `json:"email"`     // email в нижнем регистре
	Name      string `json:"name"`      // отображаемое имя
	CreatedAt string `json:"createdAt"` // время создания, RFC3339
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
