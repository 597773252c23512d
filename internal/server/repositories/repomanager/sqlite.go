package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/migrations"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/fuelentries"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/serviceevents"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/users"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/vehicles"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations
// and exposes a schema migration hook.
type SQLiteRepositoryManager struct{}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// Vehicles returns a vehicles.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Vehicles(db dbx.DBTX) vehicles.Repository {
	return vehicles.NewSQLiteRepository(db)
}

// FuelEntries returns a fuelentries.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) FuelEntries(db dbx.DBTX) fuelentries.Repository {
	return fuelentries.NewSQLiteRepository(db)
}

// ServiceEvents returns a serviceevents.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) ServiceEvents(db dbx.DBTX) serviceevents.Repository {
	return serviceevents.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}

// OpenDatabase opens the single-file store. Reads may use any pooled
// connection; the write queue is the sole mutation gateway, so writers never
// contend with each other. A small pool keeps lock pressure low.
func OpenDatabase(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	return db, nil
}
