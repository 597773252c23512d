package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/dbx"
	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// SQLiteRepository implements vehicle storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository constructs a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	query := `
		INSERT INTO vehicles (owner_id, make, model, year, registration, vin, start_odometer, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		vehicle.OwnerID, vehicle.Make, vehicle.Model, vehicle.Year,
		vehicle.Registration, vehicle.VIN, vehicle.StartOdometer, vehicle.CreatedAt,
	).Scan(&vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vehicle, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `
		SELECT id, owner_id, make, model, year, registration, vin, start_odometer, created_at
		FROM vehicles
		WHERE id = ?
	`
	vehicle := &models.Vehicle{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&vehicle.ID, &vehicle.OwnerID, &vehicle.Make, &vehicle.Model, &vehicle.Year,
		&vehicle.Registration, &vehicle.VIN, &vehicle.StartOdometer, &vehicle.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return vehicle, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Vehicle, error) {
	query := `
		SELECT id, owner_id, make, model, year, registration, vin, start_odometer, created_at
		FROM vehicles
		WHERE owner_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select vehicles: %w", err)
	}
	defer rows.Close()

	var result []models.Vehicle
	for rows.Next() {
		var item models.Vehicle
		if err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Make, &item.Model, &item.Year,
			&item.Registration, &item.VIN, &item.StartOdometer, &item.CreatedAt,
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

func (r *SQLiteRepository) Update(ctx context.Context, ownerID int64, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET make = ?, model = ?, year = ?, registration = ?, vin = ?, start_odometer = ?
		WHERE id = ? AND owner_id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Registration,
		vehicle.VIN, vehicle.StartOdometer, vehicle.ID, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM vehicles WHERE id = ? AND owner_id = ?`, id, ownerID)
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
