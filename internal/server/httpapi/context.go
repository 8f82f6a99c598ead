package httpapi

import (
	"context"

	"github.com/dmitrijs2005/locksmith/internal/server/auth"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	claimsKey
)

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user resolved by the auth middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified token claims for the request. The
// logout handler needs them to revoke the exact token in hand.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
