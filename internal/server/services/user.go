// Package services contains server-side business logic. This file implements
// UserService: registration, credential login with token minting, profile
// reads and updates, and account deletion with its secrets cascade.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/dbx"
	"github.com/dmitrijs2005/locksmith/internal/passwordx"
	"github.com/dmitrijs2005/locksmith/internal/server/auth"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/dmitrijs2005/locksmith/internal/server/quota"
	"github.com/dmitrijs2005/locksmith/internal/server/repositories/repomanager"
)

// UserService provides account-related operations:
// - Register: create users with free-plan quotas
// - Login: verify credentials and mint a bearer token
// - UpdateUser / DeleteUser: profile maintenance
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
}

// NewUserService constructs a UserService minting tokens with issuer.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer) *UserService {
	return &UserService{db: db, repomanager: m, issuer: issuer}
}

// Register creates a new user on the free plan. A taken email yields
// ErrorConflict.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := passwordx.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	plan := quota.PlanFor(false)
	now := time.Now()
	user := &models.User{
		Email:               email,
		PasswordHash:        hash,
		HasPaid:             false,
		SecretQuota:         plan.MaxSecrets,
		RequestQuota:        plan.MaxRequests,
		SubscriptionStart:   now,
		SubscriptionExpires: now,
	}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the email/password pair and mints a bearer token. An
// unknown email and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", common.ErrorInternal
	}
	if err := passwordx.Compare(user.PasswordHash, password); err != nil {
		return "", common.ErrorUnauthorized
	}
	token, err := s.issuer.Issue(user.Email)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// GetUserByEmail returns the user with the given email. Used by the request
// middleware to resolve the token subject.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

// UpdateUser changes the email and password of an existing account and
// returns the updated record.
func (s *UserService) UpdateUser(ctx context.Context, id, email, password string) (*models.User, error) {
	hash, err := passwordx.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return s.repomanager.Users(s.db).Update(ctx, id, email, hash)
}

// DeleteUser removes the account and all of its secrets in one transaction
// and returns the number of secrets that went with it.
func (s *UserService) DeleteUser(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Secrets(tx).DeleteByOwner(ctx, id)
		if err != nil {
			return fmt.Errorf("error deleting secrets: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, id); err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
