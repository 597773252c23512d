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

// ServiceEventService manages a vehicle's service history, mirroring
// FuelService: direct reads, queued mutations.
type ServiceEventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *guard.Guard
	queue       *writequeue.Queue
}

func NewServiceEventService(db *sql.DB, m repomanager.RepositoryManager, g *guard.Guard, q *writequeue.Queue) *ServiceEventService {
	return &ServiceEventService{db: db, repomanager: m, guard: g, queue: q}
}

// List returns the vehicle's service events ordered by date.
func (s *ServiceEventService) List(ctx context.Context, userID, vehicleID int64) ([]models.ServiceEvent, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}
	return s.repomanager.ServiceEvents(s.db).ListByVehicle(ctx, vehicleID)
}

// Get returns one event after walking the ownership chain.
func (s *ServiceEventService) Get(ctx context.Context, userID, eventID int64) (*models.ServiceEvent, error) {
	return s.guard.RequireServiceEvent(ctx, userID, eventID)
}

// Create validates the input, checks vehicle ownership, and enqueues the
// insert.
func (s *ServiceEventService) Create(ctx context.Context, userID, vehicleID int64, in *models.ServiceEventInput) (writequeue.Handle, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return writequeue.Handle{}, err
	}

	event, err := in.Record(vehicleID, time.Now().UTC())
	if err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
			return err
		}
		_, err := s.repomanager.ServiceEvents(s.db).Create(ctx, event)
		return err
	})
}

// Update validates the input, checks ownership, and enqueues the rewrite.
func (s *ServiceEventService) Update(ctx context.Context, userID, eventID int64, in *models.ServiceEventInput) (writequeue.Handle, error) {
	current, err := s.guard.RequireServiceEvent(ctx, userID, eventID)
	if err != nil {
		return writequeue.Handle{}, err
	}

	event, err := in.Record(current.VehicleID, time.Now().UTC())
	if err != nil {
		return writequeue.Handle{}, err
	}
	event.ID = eventID

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireServiceEvent(ctx, userID, eventID); err != nil {
			return err
		}
		return s.repomanager.ServiceEvents(s.db).Update(ctx, event.VehicleID, event)
	})
}

// Delete checks ownership and enqueues the removal.
func (s *ServiceEventService) Delete(ctx context.Context, userID, eventID int64) (writequeue.Handle, error) {
	current, err := s.guard.RequireServiceEvent(ctx, userID, eventID)
	if err != nil {
		return writequeue.Handle{}, err
	}

	return s.queue.Enqueue(func(ctx context.Context) error {
		if _, err := s.guard.RequireServiceEvent(ctx, userID, eventID); err != nil {
			return err
		}
		return s.repomanager.ServiceEvents(s.db).Delete(ctx, current.VehicleID, eventID)
	})
}
