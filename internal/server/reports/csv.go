package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// CSVFilename returns the attachment name for a monthly export,
// e.g. report_vehicle_7_2024_03.csv.
func CSVFilename(vehicleID int64, year, month int) string {
	return fmt.Sprintf("report_vehicle_%d_%d_%02d.csv", vehicleID, year, month)
}

// WriteCSV renders the report as delimited text: summary fields as
// leading rows, then a column header, then one row per entry sorted by
// date ascending. Entries with a zero date sort first.
func WriteCSV(w io.Writer, r *MonthlyReport) error {
	cw := csv.NewWriter(w)

	avg := ""
	if r.AvgConsumption != nil {
		avg = strconv.FormatFloat(*r.AvgConsumption, 'f', 2, 64)
	}
	summary := [][]string{
		{"vehicle_id", strconv.FormatInt(r.VehicleID, 10)},
		{"period", fmt.Sprintf("%d-%02d", r.Year, r.Month)},
		{"total_cost", strconv.FormatFloat(r.TotalCost, 'f', 2, 64)},
		{"total_liters", strconv.FormatFloat(r.TotalLiters, 'f', 3, 64)},
		{"distance", strconv.FormatInt(r.Distance, 10)},
		{"avg_consumption", avg},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	header := []string{"id", "date", "odometer", "liters", "price_per_liter", "total_cost", "notes"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	entries := make([]models.FuelEntry, len(r.Entries))
	copy(entries, r.Entries)
	// a zero date is the minimum, so dateless entries lead
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	for _, e := range entries {
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.UTC().Format(time.RFC3339),
			strconv.FormatInt(e.Odometer, 10),
			strconv.FormatFloat(e.Liters, 'f', -1, 64),
			strconv.FormatFloat(e.PricePerLiter, 'f', -1, 64),
			strconv.FormatFloat(e.TotalCost, 'f', 2, 64),
			notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
