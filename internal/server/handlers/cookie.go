package handlers

import (
	"net/http"
	"time"
)

// SessionCookieName имя cookie с сессионным токеном
// Токен извлекается строго из этой cookie, не из заголовков и не из тела
const SessionCookieName = "access_token"

// CookieConfig содержит атрибуты сессионной cookie
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   int // секунды, совпадает с TTL токена
}

// NewCookieConfig строит атрибуты cookie для режима развертывания
// В production: Secure + SameSite=Strict, иначе SameSite=Lax без Secure
func NewCookieConfig(production bool, tokenTTL time.Duration) CookieConfig {
	sameSite := http.SameSiteLaxMode
	if production {
		sameSite = http.SameSiteStrictMode
	}

	return CookieConfig{
		Secure:   production,
		SameSite: sameSite,
		MaxAge:   int(tokenTTL.Seconds()),
	}
}

// SetSessionCookie устанавливает HttpOnly cookie с токеном
func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// ClearSessionCookie сбрасывает cookie теми же атрибутами
func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	})
}

// TokenFromRequest извлекает сессионный токен из cookie
// Возвращает пустую строку если cookie отсутствует
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
