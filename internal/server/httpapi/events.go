package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// EventService is the slice of the service-event service the handlers need.
type EventService interface {
	List(ctx context.Context, userID, vehicleID int64) ([]models.ServiceEvent, error)
	Get(ctx context.Context, userID, eventID int64) (*models.ServiceEvent, error)
	Create(ctx context.Context, userID, vehicleID int64, in *models.ServiceEventInput) (writequeue.Handle, error)
	Update(ctx context.Context, userID, eventID int64, in *models.ServiceEventInput) (writequeue.Handle, error)
	Delete(ctx context.Context, userID, eventID int64) (writequeue.Handle, error)
}

// EventHandler serves a vehicle's service history.
type EventHandler struct {
	Events EventService
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.Events.List(r.Context(), uid, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.Events.Get(r.Context(), uid, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in models.ServiceEventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Events.Create(r.Context(), uid, vehicleID, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in models.ServiceEventInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Events.Update(r.Context(), uid, eventID, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	eventID, err := pathID(r, "eventID")
	if err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Events.Delete(r.Context(), uid, eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}
