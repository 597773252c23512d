package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/reports"
)

// ReportService is the slice of the report service the handlers need.
type ReportService interface {
	Consumption(ctx context.Context, userID, vehicleID int64) (*reports.Consumption, error)
	Monthly(ctx context.Context, userID, vehicleID int64, year, month int) (*reports.MonthlyReport, error)
	MonthlyCSV(ctx context.Context, w io.Writer, userID, vehicleID int64, year, month int) (string, error)
}

// ReportHandler serves consumption figures and monthly summaries.
type ReportHandler struct {
	Reports ReportService
}

func (h *ReportHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.Reports.Consumption(r.Context(), uid, vehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func yearMonth(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year is required", common.ErrorValidation)
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month is required", common.ErrorValidation)
	}
	return year, month, nil
}

func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.Reports.Monthly(r.Context(), uid, vehicleID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// MonthlyCSV streams the month's report as a CSV attachment.
func (h *ReportHandler) MonthlyCSV(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeError(w, err)
		return
	}
	year, month, err := yearMonth(r)
	if err != nil {
		writeError(w, err)
		return
	}

	// render to a buffer first so errors still produce a clean response
	var buf bytes.Buffer
	filename, err := h.Reports.MonthlyCSV(r.Context(), &buf, uid, vehicleID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = io.Copy(w, &buf)
}
