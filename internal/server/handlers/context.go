package handlers

import (
	"context"

	"github.com/easygen/auth-service/internal/models"
)

// contextKey тип для ключей контекста запроса
type contextKey string

const (
	// principalKey ключ для хранения principal в контексте
	principalKey contextKey = "principal"
)

// ContextWithPrincipal кладет аутентифицированный principal в контекст запроса
func ContextWithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext извлекает principal, установленный session middleware
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*models.Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
