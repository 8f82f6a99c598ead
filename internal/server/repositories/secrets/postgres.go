// Package secrets provides the PostgreSQL-backed repository for vault
// entries. Stored values are always sealed ciphertext.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/dbx"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
)

// PostgresRepository implements secret storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert persists a new secret row.
func (r *PostgresRepository) Insert(ctx context.Context, secret *models.Secret) error {
	query := `
		INSERT INTO secrets (id, key, value, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		secret.ID, secret.Key, secret.Value, secret.UserID).Scan(&secret.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanSecret(row *sql.Row) (*models.Secret, error) {
	secret := &models.Secret{}
	err := row.Scan(&secret.ID, &secret.Key, &secret.Value, &secret.UserID, &secret.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return secret, nil
}

// FindByID returns the secret with the given id owned by userID, or
// ErrorNotFound (also for rows owned by someone else).
func (r *PostgresRepository) FindByID(ctx context.Context, id, userID string) (*models.Secret, error) {
	query := `
		SELECT id, key, value, user_id, created_at FROM secrets
		WHERE id = $1 AND user_id = $2
	`
	return scanSecret(r.db.QueryRowContext(ctx, query, id, userID))
}

// FindByKey returns the newest secret stored under key for userID, or
// ErrorNotFound.
func (r *PostgresRepository) FindByKey(ctx context.Context, key, userID string) (*models.Secret, error) {
	query := `
		SELECT id, key, value, user_id, created_at FROM secrets
		WHERE key = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSecret(r.db.QueryRowContext(ctx, query, key, userID))
}

// ListByOwner returns all secrets owned by userID, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Secret, error) {
	query := `
		SELECT id, key, value, user_id, created_at FROM secrets
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Secret
	for rows.Next() {
		item := &models.Secret{}
		if err := rows.Scan(&item.ID, &item.Key, &item.Value, &item.UserID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes the secret with the given id owned by userID and
// returns the deleted row, or ErrorNotFound on a miss.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id, userID string) (*models.Secret, error) {
	query := `
		DELETE FROM secrets
		WHERE id = $1 AND user_id = $2
		RETURNING id, key, value, user_id, created_at
	`
	return scanSecret(r.db.QueryRowContext(ctx, query, id, userID))
}

// DeleteByOwner removes every secret owned by userID and returns how many
// rows were deleted.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// CountByOwner returns the number of live secrets owned by userID.
func (r *PostgresRepository) CountByOwner(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM secrets WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
