// Package fuelentries provides SQLite-backed persistence for fuel purchase
// records.
package fuelentries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// Repository defines the persistence operations for fuel entries. All
// operations are scoped by the parent vehicle id supplied by the caller.
type Repository interface {
	// Create inserts a new entry and returns it with the assigned id.
	Create(ctx context.Context, entry *models.FuelEntry) (*models.FuelEntry, error)
	// GetByID returns the entry regardless of vehicle, or common.ErrorNotFound.
	// Ownership is the access guard's concern.
	GetByID(ctx context.Context, id int64) (*models.FuelEntry, error)
	// ListByVehicle returns the vehicle's entries ordered by date ascending.
	ListByVehicle(ctx context.Context, vehicleID int64) ([]models.FuelEntry, error)
	// ListByVehicleOdometerAsc returns the vehicle's entries ordered by
	// odometer ascending, the order the consumption calculator requires.
	ListByVehicleOdometerAsc(ctx context.Context, vehicleID int64) ([]models.FuelEntry, error)
	// ListByVehicleBetween returns entries with date in [from, to), ordered
	// by date ascending.
	ListByVehicleBetween(ctx context.Context, vehicleID int64, from, to time.Time) ([]models.FuelEntry, error)
	// Update rewrites the mutable fields of the entry, scoped by vehicle.
	Update(ctx context.Context, vehicleID int64, entry *models.FuelEntry) error
	// SetReceiptPhoto stores the opaque blob reference on the entry.
	SetReceiptPhoto(ctx context.Context, vehicleID, id int64, key string) error
	// Delete removes the entry, scoped by vehicle.
	Delete(ctx context.Context, vehicleID, id int64) error
}
