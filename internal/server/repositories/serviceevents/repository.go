// Package serviceevents provides SQLite-backed persistence for vehicle
// service history.
package serviceevents

import (
	"context"

	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// Repository defines the persistence operations for service events. All
// operations are scoped by the parent vehicle id supplied by the caller.
type Repository interface {
	Create(ctx context.Context, event *models.ServiceEvent) (*models.ServiceEvent, error)
	// GetByID returns the event regardless of vehicle, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.ServiceEvent, error)
	// ListByVehicle returns the vehicle's events ordered by date ascending.
	ListByVehicle(ctx context.Context, vehicleID int64) ([]models.ServiceEvent, error)
	Update(ctx context.Context, vehicleID int64, event *models.ServiceEvent) error
	Delete(ctx context.Context, vehicleID, id int64) error
}
