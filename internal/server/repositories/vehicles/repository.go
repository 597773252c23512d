// Package vehicles provides SQLite-backed persistence for vehicle records.
package vehicles

import (
	"context"

	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// Repository defines the persistence operations for vehicles. Mutating
// operations take the owning user id as an explicit scope; they never trust
// an owner embedded in the record.
type Repository interface {
	// Create inserts a new vehicle and returns it with the assigned id.
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	// GetByID returns the vehicle regardless of owner, or common.ErrorNotFound.
	// Ownership is the access guard's concern.
	GetByID(ctx context.Context, id int64) (*models.Vehicle, error)
	// ListByOwner returns the owner's vehicles ordered by creation.
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Vehicle, error)
	// Update rewrites the mutable fields of the vehicle, scoped by owner.
	// common.ErrorNotFound when no row matched.
	Update(ctx context.Context, ownerID int64, vehicle *models.Vehicle) error
	// Delete removes the vehicle, scoped by owner. common.ErrorNotFound when
	// no row matched.
	Delete(ctx context.Context, ownerID, id int64) error
}
