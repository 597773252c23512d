// Package reports computes fuel consumption figures and monthly summaries
// over a vehicle's fuel entries.
package reports

import (
	"fmt"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// Consumption is the result of a fuel-economy computation over a range
// of entries.
type Consumption struct {
	Distance       int64   `json:"distance"`
	LitersUsed     float64 `json:"liters_used"`
	AvgConsumption float64 `json:"avg_consumption"`
}

// Compute derives distance and average consumption (liters per 100
// distance units) from entries sorted ascending by odometer. Odometer
// order reflects physical travel order even when entries are logged out
// of chronological order, so callers sort by odometer, not by date.
func Compute(entries []models.FuelEntry) (*Consumption, error) {
	if len(entries) < 2 {
		return nil, fmt.Errorf("%w: at least 2 fuel entries required", common.ErrorInsufficientData)
	}

	distance := entries[len(entries)-1].Odometer - entries[0].Odometer
	if distance <= 0 {
		return nil, fmt.Errorf("%w: odometer readings do not increase", common.ErrorInsufficientData)
	}

	var liters float64
	for _, e := range entries {
		liters += e.Liters
	}

	return &Consumption{
		Distance:       distance,
		LitersUsed:     liters,
		AvgConsumption: models.Round(liters/float64(distance)*100, 2),
	}, nil
}
