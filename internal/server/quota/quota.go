package quota

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
)

// UserCounters is the slice of the users repository the ledger mutates.
// Every method is a single conditional UPDATE, so two concurrent calls for
// the same user cannot both observe the same counter value and lose one
// decrement.
type UserCounters interface {
	// DecrementRequestQuota atomically decrements request_quota if it is
	// positive; returns common.ErrorQuotaExhausted otherwise.
	DecrementRequestQuota(ctx context.Context, userID string) error
	// DecrementSecretQuota behaves like DecrementRequestQuota for
	// secret_quota.
	DecrementSecretQuota(ctx context.Context, userID string) error
	// IncrementSecretQuota atomically increments secret_quota, never
	// exceeding max.
	IncrementSecretQuota(ctx context.Context, userID string, max int) error
}

// SecretCounter exposes the live secret count, the authoritative source for
// the secret cap check.
type SecretCounter interface {
	CountByOwner(ctx context.Context, userID string) (int, error)
}

// Manager enforces and adjusts the two per-user counters.
type Manager struct {
	users   UserCounters
	secrets SecretCounter
}

// NewManager constructs a Manager over the given repositories.
func NewManager(users UserCounters, secrets SecretCounter) *Manager {
	return &Manager{users: users, secrets: secrets}
}

// EnforceSecretQuota fails with ErrorQuotaExceeded when the user already
// holds as many secrets as the plan allows. The live count is authoritative
// (not the counter), so out-of-band storage changes cannot drift the check.
// Success mutates nothing.
func (m *Manager) EnforceSecretQuota(ctx context.Context, user *models.User) error {
	plan := PlanFor(user.HasPaid)
	count, err := m.secrets.CountByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("counting secrets: %w", err)
	}
	if count >= plan.MaxSecrets {
		return common.ErrorQuotaExceeded
	}
	return nil
}

// EnforceRequestQuota spends one unit of the user's request budget. The
// decrement is persisted before the gated operation proceeds; at zero it
// fails with ErrorQuotaExhausted and the counter is untouched.
func (m *Manager) EnforceRequestQuota(ctx context.Context, user *models.User) error {
	return m.users.DecrementRequestQuota(ctx, user.ID)
}

// OnSecretCreated spends one unit of secret_quota after a secret is
// persisted. EnforceSecretQuota has already gated the create.
func (m *Manager) OnSecretCreated(ctx context.Context, user *models.User) error {
	return m.users.DecrementSecretQuota(ctx, user.ID)
}

// OnSecretDeleted returns one unit of secret_quota, capped at the plan
// ceiling so concurrent deletes can never push the counter past the cap.
func (m *Manager) OnSecretDeleted(ctx context.Context, user *models.User) error {
	plan := PlanFor(user.HasPaid)
	return m.users.IncrementSecretQuota(ctx, user.ID, plan.MaxSecrets)
}
