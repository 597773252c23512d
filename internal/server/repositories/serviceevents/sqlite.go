package serviceevents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// SQLiteRepository implements service event storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, event *models.ServiceEvent) (*models.ServiceEvent, error) {
	query := `
		INSERT INTO service_events (vehicle_id, date, type, description, cost, next_due_date)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		event.VehicleID, event.Date, event.Type, event.Description,
		event.Cost, event.NextDueDate,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.ServiceEvent, error) {
	query := `
		SELECT id, vehicle_id, date, type, description, cost, next_due_date
		FROM service_events
		WHERE id = ?
	`
	event := &models.ServiceEvent{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID, &event.VehicleID, &event.Date, &event.Type,
		&event.Description, &event.Cost, &event.NextDueDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return event, nil
}

func (r *SQLiteRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]models.ServiceEvent, error) {
	query := `
		SELECT id, vehicle_id, date, type, description, cost, next_due_date
		FROM service_events
		WHERE vehicle_id = ?
		ORDER BY date, id
	`
	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to select service events: %w", err)
	}
	defer rows.Close()

	var result []models.ServiceEvent
	for rows.Next() {
		var item models.ServiceEvent
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.Date, &item.Type,
			&item.Description, &item.Cost, &item.NextDueDate,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, vehicleID int64, event *models.ServiceEvent) error {
	query := `
		UPDATE service_events
		SET date = ?, type = ?, description = ?, cost = ?, next_due_date = ?
		WHERE id = ? AND vehicle_id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		event.Date, event.Type, event.Description, event.Cost,
		event.NextDueDate, event.ID, vehicleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, vehicleID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM service_events WHERE id = ? AND vehicle_id = ?`, id, vehicleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
