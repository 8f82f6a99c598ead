package secrets

import (
	"context"

	"github.com/dmitrijs2005/locksmith/internal/server/models"
)

// Repository is the secret persistence contract. Every lookup and delete is
// filtered by both the secret selector and the owner id, so a caller can
// never observe another tenant's rows; a cross-owner id simply misses.
type Repository interface {
	Insert(ctx context.Context, secret *models.Secret) error
	FindByID(ctx context.Context, id, userID string) (*models.Secret, error)
	FindByKey(ctx context.Context, key, userID string) (*models.Secret, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Secret, error)
	DeleteByID(ctx context.Context, id, userID string) (*models.Secret, error)
	DeleteByOwner(ctx context.Context, userID string) (int64, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
}
