package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

// FuelService is the slice of the fuel service the handlers need.
type FuelService interface {
	List(ctx context.Context, userID, vehicleID int64) ([]models.FuelEntry, error)
	Get(ctx context.Context, userID, entryID int64) (*models.FuelEntry, error)
	Create(ctx context.Context, userID, vehicleID int64, in *models.FuelEntryInput) (writequeue.Handle, error)
	Update(ctx context.Context, userID, entryID int64, in *models.FuelEntryInput) (writequeue.Handle, error)
	Delete(ctx context.Context, userID, entryID int64) (writequeue.Handle, error)
}

// ReceiptService is the slice of the receipt service the handlers need.
type ReceiptService interface {
	PrepareUpload(ctx context.Context, userID, entryID int64) (string, writequeue.Handle, error)
	FetchURL(ctx context.Context, userID, entryID int64) (string, error)
}

// FuelHandler serves fuel entries and their receipt photos.
type FuelHandler struct {
	Fuel     FuelService
	Receipts ReceiptService
}

func (h *FuelHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := h.Fuel.List(r.Context(), uid, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *FuelHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.Fuel.Get(r.Context(), uid, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *FuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in models.FuelEntryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Fuel.Create(r.Context(), uid, vehicleID, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *FuelHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, err)
		return
	}

	var in models.FuelEntryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Fuel.Update(r.Context(), uid, entryID, &in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

func (h *FuelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, err)
		return
	}

	handle, err := h.Fuel.Delete(r.Context(), uid, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeAccepted(w, handle)
}

// UploadReceipt presigns a PUT for the photo and queues recording its
// key on the entry. The caller uploads to upload_url directly.
func (h *FuelHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, err)
		return
	}

	url, handle, err := h.Receipts.PrepareUpload(r.Context(), uid, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":     "accepted",
		"job_id":     handle.ID,
		"upload_url": url,
	})
}

// GetReceipt returns a presigned GET for the entry's stored photo.
func (h *FuelHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(w, err)
		return
	}

	url, err := h.Receipts.FetchURL(r.Context(), uid, entryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
