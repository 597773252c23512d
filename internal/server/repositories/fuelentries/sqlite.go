package fuelentries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/models"
)

const selectColumns = `id, vehicle_id, date, odometer, liters, price_per_liter, total_cost, notes, receipt_photo`

// SQLiteRepository implements fuel entry storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, entry *models.FuelEntry) (*models.FuelEntry, error) {
	query := `
		INSERT INTO fuel_entries (vehicle_id, date, odometer, liters, price_per_liter, total_cost, notes, receipt_photo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.VehicleID, entry.Date, entry.Odometer, entry.Liters,
		entry.PricePerLiter, entry.TotalCost, entry.Notes, entry.ReceiptPhoto,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.FuelEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM fuel_entries WHERE id = ?`

	entry := &models.FuelEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.VehicleID, &entry.Date, &entry.Odometer, &entry.Liters,
		&entry.PricePerLiter, &entry.TotalCost, &entry.Notes, &entry.ReceiptPhoto)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *SQLiteRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]models.FuelEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM fuel_entries WHERE vehicle_id = ? ORDER BY date, id`
	return r.list(ctx, query, vehicleID)
}

func (r *SQLiteRepository) ListByVehicleOdometerAsc(ctx context.Context, vehicleID int64) ([]models.FuelEntry, error) {
	query := `SELECT ` + selectColumns + ` FROM fuel_entries WHERE vehicle_id = ? ORDER BY odometer, id`
	return r.list(ctx, query, vehicleID)
}

func (r *SQLiteRepository) ListByVehicleBetween(ctx context.Context, vehicleID int64, from, to time.Time) ([]models.FuelEntry, error) {
	// Half-open window: from inclusive, to exclusive.
	query := `SELECT ` + selectColumns + ` FROM fuel_entries WHERE vehicle_id = ? AND date >= ? AND date < ? ORDER BY date, id`
	return r.list(ctx, query, vehicleID, from, to)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.FuelEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select fuel entries: %w", err)
	}
	defer rows.Close()

	var result []models.FuelEntry
	for rows.Next() {
		var item models.FuelEntry
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.Date, &item.Odometer, &item.Liters,
			&item.PricePerLiter, &item.TotalCost, &item.Notes, &item.ReceiptPhoto,
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

func (r *SQLiteRepository) Update(ctx context.Context, vehicleID int64, entry *models.FuelEntry) error {
	query := `
		UPDATE fuel_entries
		SET date = ?, odometer = ?, liters = ?, price_per_liter = ?, total_cost = ?, notes = ?
		WHERE id = ? AND vehicle_id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.Date, entry.Odometer, entry.Liters, entry.PricePerLiter,
		entry.TotalCost, entry.Notes, entry.ID, vehicleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) SetReceiptPhoto(ctx context.Context, vehicleID, id int64, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fuel_entries SET receipt_photo = ? WHERE id = ? AND vehicle_id = ?`,
		key, id, vehicleID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, vehicleID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM fuel_entries WHERE id = ? AND vehicle_id = ?`, id, vehicleID)
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
