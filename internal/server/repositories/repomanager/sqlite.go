package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/dmitrijs2005/attendance/internal/server/migrations"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/attendance"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager serves local development and tests. SQLite allows a
// single writer, so callers should cap the pool at one open connection.
type SQLiteRepositoryManager struct {
	Logger logging.Logger
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Attendance(db dbx.DBTX) attendance.Repository {
	return attendance.NewSQLiteRepository(db)
}

// RunMigrations applies migrations/sqlite.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetLogger(newGooseLogger(ctx, m.Logger))
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}
