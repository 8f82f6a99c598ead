package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/cryptox"
	"github.com/dmitrijs2005/locksmith/internal/logging"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/dmitrijs2005/locksmith/internal/server/quota"
	"github.com/dmitrijs2005/locksmith/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// VaultService implements the secret store. Values pass through the crypto
// envelope on every write and read, so the repositories only ever see sealed
// ciphertext. Every operation runs on behalf of an authenticated user and is
// scoped to that user's vault.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	quota       *quota.Manager
	key         []byte
	logger      logging.Logger
}

// NewVaultService constructs a VaultService sealing values under key.
func NewVaultService(db *sql.DB, m repomanager.RepositoryManager, q *quota.Manager,
	key []byte, logger logging.Logger) *VaultService {
	return &VaultService{db: db, repomanager: m, quota: q, key: key, logger: logger}
}

// CreateSecret seals value and persists it under key for the user. The
// secret cap is enforced against the live count before anything is written.
func (s *VaultService) CreateSecret(ctx context.Context, user *models.User, key, value string) (*models.Secret, error) {
	if err := s.quota.EnforceSecretQuota(ctx, user); err != nil {
		return nil, err
	}
	blob, err := cryptox.Seal([]byte(value), s.key)
	if err != nil {
		return nil, fmt.Errorf("sealing secret: %w", err)
	}
	secret := &models.Secret{
		ID:     uuid.NewString(),
		Key:    key,
		Value:  cryptox.EncodeForStorage(blob),
		UserID: user.ID,
	}
	repo := s.repomanager.Secrets(s.db)
	if err := repo.Insert(ctx, secret); err != nil {
		return nil, err
	}
	// The counter is advisory (the cap check counts rows); a failed
	// decrement is logged, not surfaced, so the already-persisted secret
	// is not reported as an error.
	if err := s.quota.OnSecretCreated(ctx, user); err != nil {
		s.logger.Warn(ctx, "secret quota counter not decremented", "user_id", user.ID, "error", err)
	}
	return secret, nil
}

// GetSecretByID returns the decrypted secret with the given id. Reads spend
// one unit of the request budget before touching storage.
func (s *VaultService) GetSecretByID(ctx context.Context, user *models.User, id string) (*models.Secret, error) {
	if err := s.quota.EnforceRequestQuota(ctx, user); err != nil {
		return nil, err
	}
	secret, err := s.repomanager.Secrets(s.db).FindByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	return s.openSecret(secret)
}

// GetSecretByKey returns the decrypted newest secret stored under key.
func (s *VaultService) GetSecretByKey(ctx context.Context, user *models.User, key string) (*models.Secret, error) {
	if err := s.quota.EnforceRequestQuota(ctx, user); err != nil {
		return nil, err
	}
	secret, err := s.repomanager.Secrets(s.db).FindByKey(ctx, key, user.ID)
	if err != nil {
		return nil, err
	}
	return s.openSecret(secret)
}

// ListSecrets returns metadata for every secret in the user's vault. Values
// stay sealed; listings never decrypt.
func (s *VaultService) ListSecrets(ctx context.Context, user *models.User) ([]*models.SecretMetadata, error) {
	if err := s.quota.EnforceRequestQuota(ctx, user); err != nil {
		return nil, err
	}
	return s.listMetadata(ctx, user)
}

// GetSecretsByAuthor returns metadata for the secrets created by authorID.
// The request unit is spent before the author check, so the gated-read
// contract holds even on a miss. Owners are the only authors of their
// vault, so asking for anyone else's secrets looks exactly like asking for
// an empty vault that is not yours.
func (s *VaultService) GetSecretsByAuthor(ctx context.Context, user *models.User, authorID string) ([]*models.SecretMetadata, error) {
	if err := s.quota.EnforceRequestQuota(ctx, user); err != nil {
		return nil, err
	}
	if authorID != user.ID {
		return nil, common.ErrorNotFound
	}
	return s.listMetadata(ctx, user)
}

func (s *VaultService) listMetadata(ctx context.Context, user *models.User) ([]*models.SecretMetadata, error) {
	items, err := s.repomanager.Secrets(s.db).ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	result := make([]*models.SecretMetadata, 0, len(items))
	for _, item := range items {
		result = append(result, &models.SecretMetadata{
			ID:        item.ID,
			Key:       item.Key,
			CreatedBy: user.Email,
			CreatedAt: item.CreatedAt,
		})
	}
	return result, nil
}

// DeleteSecret removes the secret with the given id and returns it
// decrypted, so the caller sees what was destroyed. Deletion spends no
// request budget: an exhausted user must still be able to free secret-cap
// space. The freed secret unit is returned to the counter, capped at the
// plan ceiling.
func (s *VaultService) DeleteSecret(ctx context.Context, user *models.User, id string) (*models.Secret, error) {
	secret, err := s.repomanager.Secrets(s.db).DeleteByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.quota.OnSecretDeleted(ctx, user); err != nil {
		s.logger.Warn(ctx, "secret quota counter not incremented", "user_id", user.ID, "error", err)
	}
	return s.openSecret(secret)
}

// DeleteSecretsByOwner empties the user's vault and returns how many
// secrets were removed. This is the cascade used when an account goes away:
// it spends no request budget and restores no quota, since the counters
// disappear with the user row.
func (s *VaultService) DeleteSecretsByOwner(ctx context.Context, user *models.User) (int64, error) {
	return s.repomanager.Secrets(s.db).DeleteByOwner(ctx, user.ID)
}

// openSecret replaces the stored sealed value with its plaintext.
func (s *VaultService) openSecret(secret *models.Secret) (*models.Secret, error) {
	blob, err := cryptox.DecodeFromStorage(secret.Value)
	if err != nil {
		return nil, err
	}
	plaintext, err := cryptox.Open(blob, s.key)
	if err != nil {
		return nil, err
	}
	secret.Value = string(plaintext)
	return secret, nil
}
