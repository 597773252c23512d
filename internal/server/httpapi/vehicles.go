package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// VehicleService is the slice of the vehicle service the handlers need.
type VehicleService interface {
	List(ctx context.Context, userID int64) ([]models.Vehicle, error)
	Get(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error)
	Create(ctx context.Context, userID int64, in *models.VehicleInput) (writequeue.Handle, error)
	Update(ctx context.Context, userID, vehicleID int64, in *models.VehicleInput) (writequeue.Handle, error)
	Delete(ctx context.Context, userID, vehicleID int64) (writequeue.Handle, error)
}

// VehicleHandler serves the vehicle collection of the authenticated user.
type VehicleHandler struct {
	Vehicles VehicleService
}

// pathID parses a numeric chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, common.ErrorValidation
	}
	return id, nil
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)

	list, err := h.Vehicles.List(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	id, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	vehicle, err := h.Vehicles.Get(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)

	var in models.VehicleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Vehicles.Create(r.Context(), uid, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	id, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in models.VehicleInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Vehicles.Update(r.Context(), uid, id, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	id, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Vehicles.Delete(r.Context(), uid, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}
