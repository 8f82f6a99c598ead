// Package users provides the PostgreSQL-backed repository for user records
// and their quota counters.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/dbx"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepository implements user storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, has_paid, secret_quota, request_quota,
		subscription_start, subscription_expires, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.HasPaid,
		&user.SecretQuota, &user.RequestQuota,
		&user.SubscriptionStart, &user.SubscriptionExpires, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts a new user. A duplicate email yields ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, has_paid, secret_quota, request_quota,
			subscription_start, subscription_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.HasPaid,
		user.SecretQuota, user.RequestQuota,
		user.SubscriptionStart, user.SubscriptionExpires,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email or ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id or ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Update changes the email and password hash of an existing user and
// returns the updated record. Missing user yields ErrorNotFound, a taken
// email ErrorConflict.
func (r *PostgresRepository) Update(ctx context.Context, id, email, passwordHash string) (*models.User, error) {
	query := `
		UPDATE users SET email = $2, password_hash = $3
		WHERE id = $1
		RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorConflict
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user. The secrets cascade is handled by the schema's
// ON DELETE CASCADE plus an explicit bulk delete in the service layer so
// the deleted count can be reported.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DecrementRequestQuota spends one request unit. The WHERE clause makes the
// decrement conditional, so a counter at zero is rejected (never clamped)
// and two concurrent decrements cannot lose an update.
func (r *PostgresRepository) DecrementRequestQuota(ctx context.Context, id string) error {
	query := `
		UPDATE users SET request_quota = request_quota - 1
		WHERE id = $1 AND request_quota > 0
	`
	return r.conditionalUpdate(ctx, query, common.ErrorQuotaExhausted, id)
}

// DecrementSecretQuota spends one secret unit under the same contract as
// DecrementRequestQuota.
func (r *PostgresRepository) DecrementSecretQuota(ctx context.Context, id string) error {
	query := `
		UPDATE users SET secret_quota = secret_quota - 1
		WHERE id = $1 AND secret_quota > 0
	`
	return r.conditionalUpdate(ctx, query, common.ErrorQuotaExhausted, id)
}

// IncrementSecretQuota returns one secret unit, saturating at max so the
// counter never exceeds the plan ceiling.
func (r *PostgresRepository) IncrementSecretQuota(ctx context.Context, id string, max int) error {
	query := `
		UPDATE users SET secret_quota = LEAST(secret_quota + 1, $2)
		WHERE id = $1
	`
	return r.conditionalUpdate(ctx, query, common.ErrorNotFound, id, max)
}

// ResetRequestQuota restores the request budget to quota. Intended for the
// external billing-period job, not the request path.
func (r *PostgresRepository) ResetRequestQuota(ctx context.Context, id string, quota int) error {
	query := `UPDATE users SET request_quota = $2 WHERE id = $1`
	return r.conditionalUpdate(ctx, query, common.ErrorNotFound, id, quota)
}

func (r *PostgresRepository) conditionalUpdate(ctx context.Context, query string, zeroRowsErr error, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return zeroRowsErr
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
