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

// VehicleService serves vehicle reads directly and funnels mutations
// through the write queue. Validation and the ownership check run
// synchronously before a job is accepted; the job re-checks ownership
// when it runs, since the world may have changed while it waited.
type VehicleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *guard.Guard
	queue       *writequeue.Queue
}

func NewVehicleService(db *sql.DB, m repomanager.RepositoryManager, g *guard.Guard, q *writequeue.Queue) *VehicleService {
	return &VehicleService{db: db, repomanager: m, guard: g, queue: q}
}

// List returns the caller's vehicles.
func (s *VehicleService) List(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	return s.repomanager.Vehicles(s.db).ListByOwner(ctx, userID)
}

// Get returns one vehicle after the ownership check.
func (s *VehicleService) Get(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	return s.guard.RequireVehicle(ctx, userID, vehicleID)
}

// Create validates the input and enqueues the insert.
func (s *VehicleService) Create(ctx context.Context, userID int64, in *models.VehicleInput) (writequeue.Handle, error) {
	vehicle, err := in.Record(userID, time.Now().UTC())
	if err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		_, err := s.repomanager.Vehicles(s.db).Create(ctx, vehicle)
		return err
	})
}

// Update validates the input, checks ownership, and enqueues the rewrite.
func (s *VehicleService) Update(ctx context.Context, userID, vehicleID int64, in *models.VehicleInput) (writequeue.Handle, error) {
	current, err := s.guard.RequireVehicle(ctx, userID, vehicleID)
	if err != nil {
		return writequeue.Handle{}, err
	}

	vehicle, err := in.Record(userID, current.CreatedAt)
	if err != nil {
		return writequeue.Handle{}, err
	}
	vehicle.ID = vehicleID

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
			return err
		}
		return s.repomanager.Vehicles(s.db).Update(ctx, userID, vehicle)
	})
}

// Delete checks ownership and enqueues the removal.
func (s *VehicleService) Delete(ctx context.Context, userID, vehicleID int64) (writequeue.Handle, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
			return err
		}
		return s.repomanager.Vehicles(s.db).Delete(ctx, userID, vehicleID)
	})
}
