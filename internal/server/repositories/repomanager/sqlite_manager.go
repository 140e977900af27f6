package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/matchbox/internal/dbx"
	"github.com/dmitrijs2005/matchbox/internal/server/migrations"
	"github.com/dmitrijs2005/matchbox/internal/server/repositories/state"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) State(db dbx.DBTX) state.Repository {
	return state.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
