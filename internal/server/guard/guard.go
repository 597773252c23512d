// Package guard enforces the ownership chain User → Vehicle → {FuelEntry,
// ServiceEvent}. Every read or write of a specific record passes through it
// first, including the write queue's re-validation before committing a job.
package guard

import (
	"context"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
)

// Guard answers whether a principal owns a record, directly or transitively
// through the vehicle.
//
// Policy: a record that does not exist at all yields common.ErrorNotFound; a
// record that exists under a different owner yields
// common.ErrorPermissionDenied. The two are never conflated.
type Guard struct {
	db    dbx.DBTX
	repos repomanager.RepositoryManager
}

func New(db dbx.DBTX, repos repomanager.RepositoryManager) *Guard {
	return &Guard{db: db, repos: repos}
}

// RequireVehicle returns the vehicle if it exists and belongs to userID.
func (g *Guard) RequireVehicle(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	vehicle, err := g.repos.Vehicles(g.db).GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID != userID {
		return nil, common.ErrorPermissionDenied
	}
	return vehicle, nil
}

// RequireFuelEntry returns the entry if its vehicle belongs to userID.
func (g *Guard) RequireFuelEntry(ctx context.Context, userID, entryID int64) (*models.FuelEntry, error) {
	entry, err := g.repos.FuelEntries(g.db).GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if _, err := g.RequireVehicle(ctx, userID, entry.VehicleID); err != nil {
		return nil, err
	}
	return entry, nil
}

// RequireServiceEvent returns the event if its vehicle belongs to userID.
func (g *Guard) RequireServiceEvent(ctx context.Context, userID, eventID int64) (*models.ServiceEvent, error) {
	event, err := g.repos.ServiceEvents(g.db).GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := g.RequireVehicle(ctx, userID, event.VehicleID); err != nil {
		return nil, err
	}
	return event, nil
}
