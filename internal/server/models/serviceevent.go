package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carcare/internal/common"
)

type ServiceEvent struct {
	ID          int64      `json:"id"`
	VehicleID   int64      `json:"vehicle_id"`
	Date        time.Time  `json:"date"`
	Type        string     `json:"type"`
	Description *string    `json:"description,omitempty"`
	Cost        float64    `json:"cost"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// MarshalJSON also surfaces the category as "title", which older clients
// still read.
func (e ServiceEvent) MarshalJSON() ([]byte, error) {
	type alias ServiceEvent
	return json.Marshal(struct {
		alias
		Title string `json:"title"`
	}{alias: alias(e), Title: e.Type})
}

// ServiceEventInput is the validated payload for creating or updating a
// service event. "title" is accepted as an alias for "type".
type ServiceEventInput struct {
	Date        *FlexTime   `json:"date"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Cost        *FlexNumber `json:"cost"`
	NextDueDate *FlexTime   `json:"next_due_date"`
}

// Record coerces the input into a ServiceEvent for the given vehicle.
// A missing date defaults to now.
func (in *ServiceEventInput) Record(vehicleID int64, now time.Time) (*ServiceEvent, error) {
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		kind = strings.TrimSpace(in.Title)
	}
	if kind == "" {
		return nil, fmt.Errorf("%w: type is required", common.ErrorValidation)
	}
	if in.Cost == nil {
		return nil, fmt.Errorf("%w: cost is required", common.ErrorValidation)
	}
	cost := in.Cost.Float()
	if cost < 0 {
		return nil, fmt.Errorf("%w: cost must not be negative", common.ErrorValidation)
	}

	e := &ServiceEvent{
		VehicleID:   vehicleID,
		Date:        now,
		Type:        kind,
		Description: in.Description,
		Cost:        cost,
	}
	if in.Date != nil {
		e.Date = in.Date.Time()
	}
	if in.NextDueDate != nil {
		due := in.NextDueDate.Time()
		e.NextDueDate = &due
	}
	return e, nil
}
