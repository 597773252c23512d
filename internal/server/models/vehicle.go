package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carcare/internal/common"
)

type Vehicle struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"-"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          *int64    `json:"year,omitempty"`
	Registration  *string   `json:"registration,omitempty"`
	VIN           *string   `json:"vin,omitempty"`
	StartOdometer *int64    `json:"start_odometer,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// VehicleInput is the validated payload for creating or updating a vehicle.
// The owner is never taken from the payload; it comes from the
// authenticated principal.
type VehicleInput struct {
	Make          string      `json:"make"`
	Model         string      `json:"model"`
	Year          *FlexNumber `json:"year"`
	Registration  *string     `json:"registration"`
	VIN           *string     `json:"vin"`
	StartOdometer *FlexNumber `json:"start_odometer"`
}

// Record coerces the input into a Vehicle owned by ownerID.
func (in *VehicleInput) Record(ownerID int64, now time.Time) (*Vehicle, error) {
	if strings.TrimSpace(in.Make) == "" {
		return nil, fmt.Errorf("%w: make is required", common.ErrorValidation)
	}
	if strings.TrimSpace(in.Model) == "" {
		return nil, fmt.Errorf("%w: model is required", common.ErrorValidation)
	}

	v := &Vehicle{
		OwnerID:      ownerID,
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Registration: in.Registration,
		VIN:          in.VIN,
		CreatedAt:    now,
	}
	if in.Year != nil {
		year, err := in.Year.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: year: %v", common.ErrorValidation, err)
		}
		v.Year = &year
	}
	if in.StartOdometer != nil {
		odo, err := in.StartOdometer.Int()
		if err != nil {
			return nil, fmt.Errorf("%w: start_odometer: %v", common.ErrorValidation, err)
		}
		if odo < 0 {
			return nil, fmt.Errorf("%w: start_odometer must not be negative", common.ErrorValidation)
		}
		v.StartOdometer = &odo
	}
	return v, nil
}
