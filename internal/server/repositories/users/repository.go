package users

import (
	"context"

	"github.com/dmitrijs2005/locksmith/internal/server/models"
)

// Repository is the user persistence contract. Counter mutations are
// conditional single-statement updates; see the Postgres implementation.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id, email, passwordHash string) (*models.User, error)
	Delete(ctx context.Context, id string) error

	DecrementRequestQuota(ctx context.Context, id string) error
	DecrementSecretQuota(ctx context.Context, id string) error
	IncrementSecretQuota(ctx context.Context, id string, max int) error
	ResetRequestQuota(ctx context.Context, id string, quota int) error
}
