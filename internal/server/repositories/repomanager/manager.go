package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/locksmith/internal/dbx"
	"github.com/dmitrijs2005/locksmith/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/locksmith/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// constructor works for plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Secrets(db dbx.DBTX) secrets.Repository
}
