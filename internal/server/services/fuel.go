package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/carcare/internal/server/guard"
	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// FuelService manages fuel purchase records for a vehicle. Reads go
// straight to the store after the ownership check; mutations ride the
// write queue.
type FuelService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *guard.Guard
	queue       *writequeue.Queue
}

func NewFuelService(db *sql.DB, m repomanager.RepositoryManager, g *guard.Guard, q *writequeue.Queue) *FuelService {
	return &FuelService{db: db, repomanager: m, guard: g, queue: q}
}

// List returns the vehicle's fuel entries ordered by date.
func (s *FuelService) List(ctx context.Context, userID, vehicleID int64) ([]models.FuelEntry, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.repomanager.FuelEntries(s.db).ListByVehicle(ctx, vehicleID)
}

// Get returns one entry after walking the ownership chain.
func (s *FuelService) Get(ctx context.Context, userID, entryID int64) (*models.FuelEntry, error) {
	return s.guard.RequireFuelEntry(ctx, userID, entryID)
}

// Create validates the input, checks vehicle ownership, and enqueues the
// insert.
func (s *FuelService) Create(ctx context.Context, userID, vehicleID int64, in *models.FuelEntryInput) (writequeue.Handle, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return writequeue.Handle{}, err
	}

	entry, err := in.Record(vehicleID, time.Now().UTC())
	if err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
			return err
		}
		_, err := s.repomanager.FuelEntries(s.db).Create(ctx, entry)
		return err
	})
}

// Update validates the input, checks ownership, and enqueues the rewrite.
func (s *FuelService) Update(ctx context.Context, userID, entryID int64, in *models.FuelEntryInput) (writequeue.Handle, error) {
	current, err := s.guard.RequireFuelEntry(ctx, userID, entryID)
	if err != nil {
		return writequeue.Handle{}, err
	}

	entry, err := in.Record(current.VehicleID, time.Now().UTC())
	if err != nil {
		return writequeue.Handle{}, err
	}
	entry.ID = entryID
	entry.ReceiptPhoto = current.ReceiptPhoto

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireFuelEntry(ctx, userID, entryID); err != nil {
			return err
		}
		return s.repomanager.FuelEntries(s.db).Update(ctx, entry.VehicleID, entry)
	})
}

// Delete checks ownership and enqueues the removal.
func (s *FuelService) Delete(ctx context.Context, userID, entryID int64) (writequeue.Handle, error) {
	current, err := s.guard.RequireFuelEntry(ctx, userID, entryID)
	if err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireFuelEntry(ctx, userID, entryID); err != nil {
			return err
		}
		return s.repomanager.FuelEntries(s.db).Delete(ctx, current.VehicleID, entryID)
	})
}
