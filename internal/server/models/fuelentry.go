package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/carcare/internal/common"
)

type FuelEntry struct {
	ID            int64     `json:"id"`
	VehicleID     int64     `json:"vehicle_id"`
	Date          time.Time `json:"date"`
	Odometer      int64     `json:"odometer"`
	Liters        float64   `json:"liters"`
	PricePerLiter float64   `json:"price_per_liter"`
	TotalCost     float64   `json:"total_cost"`
	Notes         *string   `json:"notes,omitempty"`
	ReceiptPhoto  *string   `json:"receipt_photo,omitempty"`
}

// FuelEntryInput is the validated payload for creating or updating a fuel
// entry. Numeric fields accept locale-flexible text, the date accepts
// ISO-8601 or an epoch value.
type FuelEntryInput struct {
	Date          *FlexTime   `json:"date"`
	Odometer      *FlexNumber `json:"odometer"`
	Liters        *FlexNumber `json:"liters"`
	PricePerLiter *FlexNumber `json:"price_per_liter"`
	TotalCost     *FlexNumber `json:"total_cost"`
	Notes         *string     `json:"notes"`
}

// Record coerces the input into a FuelEntry for the given vehicle.
// A missing date defaults to now; a missing total cost is derived as
// round(liters * price_per_liter, 2).
func (in *FuelEntryInput) Record(vehicleID int64, now time.Time) (*FuelEntry, error) {
	if in.Odometer == nil {
		return nil, fmt.Errorf("%w: odometer is required", common.ErrorValidation)
	}
	if in.Liters == nil {
		return nil, fmt.Errorf("%w: liters is required", common.ErrorValidation)
	}
	if in.PricePerLiter == nil {
		return nil, fmt.Errorf("%w: price_per_liter is required", common.ErrorValidation)
	}

	odometer, err := in.Odometer.Int()
	if err != nil {
		return nil, fmt.Errorf("%w: odometer: %v", common.ErrorValidation, err)
	}
	if odometer < 0 {
		return nil, fmt.Errorf("%w: odometer must not be negative", common.ErrorValidation)
	}
	liters := in.Liters.Float()
	if liters <= 0 {
		return nil, fmt.Errorf("%w: liters must be positive", common.ErrorValidation)
	}
	pricePerLiter := in.PricePerLiter.Float()
	if pricePerLiter < 0 {
		return nil, fmt.Errorf("%w: price_per_liter must not be negative", common.ErrorValidation)
	}

	e := &FuelEntry{
		VehicleID:     vehicleID,
		Date:          now,
		Odometer:      odometer,
		Liters:        liters,
		PricePerLiter: pricePerLiter,
		Notes:         in.Notes,
	}
	if in.Date != nil {
		e.Date = in.Date.Time()
	}
	if in.TotalCost != nil {
		e.TotalCost = in.TotalCost.Float()
	} else {
		e.TotalCost = Round(liters*pricePerLiter, 2)
	}
	return e, nil
}
