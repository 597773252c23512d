package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/guard"
	"github.com/dmitrijs2005/carcare/internal/server/reports"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
)

// ReportService computes consumption figures and monthly summaries. All
// report reads go straight to the store after the ownership check.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *guard.Guard
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, g *guard.Guard) *ReportService {
	return &ReportService{db: db, repomanager: m, guard: g}
}

// Consumption returns the vehicle's overall fuel economy across all its
// entries, ordered by odometer.
func (s *ReportService) Consumption(ctx context.Context, userID, vehicleID int64) (*reports.Consumption, error) {
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	entries, err := s.repomanager.FuelEntries(s.db).ListByVehicleOdometerAsc(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("error listing fuel entries: %w", err)
	}
	return reports.Compute(entries)
}

// Monthly returns the report for one calendar month.
func (s *ReportService) Monthly(ctx context.Context, userID, vehicleID int64, year, month int) (*reports.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", common.ErrorValidation)
	}
	if _, err := s.guard.RequireVehicle(ctx, userID, vehicleID); err != nil {
		return nil, err
	}

	from, to := reports.MonthWindow(year, month)
	entries, err := s.repomanager.FuelEntries(s.db).ListByVehicleBetween(ctx, vehicleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error listing fuel entries: %w", err)
	}
	return reports.BuildMonthly(vehicleID, year, month, entries), nil
}

// MonthlyCSV writes the month's report as CSV and returns the filename
// to serve it under.
func (s *ReportService) MonthlyCSV(ctx context.Context, w io.Writer, userID, vehicleID int64, year, month int) (string, error) {
	r, err := s.Monthly(ctx, userID, vehicleID, year, month)
	if err != nil {
		return "", err
	}
	if err := reports.WriteCSV(w, r); err != nil {
		return "", err
	}
	return reports.CSVFilename(vehicleID, year, month), nil
}
