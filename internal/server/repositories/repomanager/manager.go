// Package repomanager picks the state backend from configuration, opens its
// connection and runs schema migrations for the SQL backends.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/matchbox/internal/dbx"
	"github.com/dmitrijs2005/matchbox/internal/server/repositories/state"
)

// RepositoryManager vends state repositories for one SQL dialect.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	State(db dbx.DBTX) state.Repository
}
