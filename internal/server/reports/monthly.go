package reports

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/carcare/internal/server/models"
)

// DailyTotal is one day's aggregated liters and cost.
type DailyTotal struct {
	Day       string  `json:"day"`
	Liters    float64 `json:"liters"`
	TotalCost float64 `json:"total_cost"`
}

// MonthlyReport summarizes a vehicle's fuel entries for one calendar month.
// AvgConsumption is nil when the month's odometer readings give no
// positive distance, which distinguishes "nothing to compute" from a
// computed zero.
type MonthlyReport struct {
	VehicleID      int64              `json:"vehicle_id"`
	Year           int                `json:"year"`
	Month          int                `json:"month"`
	TotalCost      float64            `json:"total_cost"`
	TotalLiters    float64            `json:"total_liters"`
	Distance       int64              `json:"distance"`
	AvgConsumption *float64           `json:"avg_consumption"`
	Daily          []DailyTotal       `json:"daily"`
	Entries        []models.FuelEntry `json:"entries"`
}

// MonthWindow returns the half-open interval [first day of the month,
// first day of the next month) in UTC. December rolls over into January
// of the following year.
func MonthWindow(year, month int) (from, to time.Time) {
	from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, 0)
	return from, to
}

// BuildMonthly aggregates the given entries, already filtered to the
// month window and ordered by date ascending, into a report. An empty
// slice yields a zero-valued summary rather than an error.
func BuildMonthly(vehicleID int64, year, month int, entries []models.FuelEntry) *MonthlyReport {
	r := &MonthlyReport{
		VehicleID: vehicleID,
		Year:      year,
		Month:     month,
		Daily:     []DailyTotal{},
		Entries:   entries,
	}
	if len(entries) == 0 {
		return r
	}

	minOdo, maxOdo := entries[0].Odometer, entries[0].Odometer
	days := map[string]*DailyTotal{}
	for _, e := range entries {
		r.TotalCost += e.TotalCost
		r.TotalLiters += e.Liters
		if e.Odometer < minOdo {
			minOdo = e.Odometer
		}
		if e.Odometer > maxOdo {
			maxOdo = e.Odometer
		}

		day := e.Date.UTC().Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &DailyTotal{Day: day}
			days[day] = d
		}
		d.Liters += e.Liters
		d.TotalCost += e.TotalCost
	}

	r.TotalCost = models.Round(r.TotalCost, 2)
	r.TotalLiters = models.Round(r.TotalLiters, 3)

	if len(entries) >= 2 {
		r.Distance = maxOdo - minOdo
	}
	if r.Distance > 0 {
		avg := models.Round(r.TotalLiters/float64(r.Distance)*100, 2)
		r.AvgConsumption = &avg
	}

	for _, d := range days {
		d.Liters = models.Round(d.Liters, 3)
		d.TotalCost = models.Round(d.TotalCost, 2)
		r.Daily = append(r.Daily, *d)
	}
	sort.Slice(r.Daily, func(i, j int) bool { return r.Daily[i].Day < r.Daily[j].Day })

	return r
}
