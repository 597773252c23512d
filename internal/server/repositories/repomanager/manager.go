// Package repomanager provides a concrete RepositoryManager for SQLite,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/fuelentries"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/serviceevents"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/users"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/vehicles"
)

// RepositoryManager vends repository implementations bound to a DBTX so
// services can run them either on the bare connection or inside a
// transaction, and exposes a schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	FuelEntries(db dbx.DBTX) fuelentries.Repository
	ServiceEvents(db dbx.DBTX) serviceevents.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
