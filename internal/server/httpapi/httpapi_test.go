package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/carcare/internal/common"
	"github.com/dmitrijs2005/carcare/internal/server/auth"
	"github.com/dmitrijs2005/carcare/internal/server/models"
	"github.com/dmitrijs2005/carcare/internal/server/reports"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"
)

var testSecret = []byte("test-secret")

type fakeAuth struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuth) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return &models.User{ID: 1, Email: email}, "tok", nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "tok", nil
}

type fakeVehicles struct {
	err      error
	vehicles []models.Vehicle
	lastUser int64
}

func (f *fakeVehicles) List(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	f.lastUser = userID
	return f.vehicles, f.err
}

func (f *fakeVehicles) Get(ctx context.Context, userID, vehicleID int64) (*models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.vehicles[0], nil
}

func (f *fakeVehicles) Create(ctx context.Context, userID int64, in *models.VehicleInput) (writequeue.Handle, error) {
	if f.err != nil {
		return writequeue.Handle{}, f.err
	}
	return writequeue.Handle{ID: "job-1"}, nil
}

func (f *fakeVehicles) Update(ctx context.Context, userID, vehicleID int64, in *models.VehicleInput) (writequeue.Handle, error) {
	return f.Create(ctx, userID, nil)
}

func (f *fakeVehicles) Delete(ctx context.Context, userID, vehicleID int64) (writequeue.Handle, error) {
	return f.Create(ctx, userID, nil)
}

type fakeFuel struct {
	err     error
	entries []models.FuelEntry
}

func (f *fakeFuel) List(ctx context.Context, userID, vehicleID int64) ([]models.FuelEntry, error) {
	return f.entries, f.err
}

func (f *fakeFuel) Get(ctx context.Context, userID, entryID int64) (*models.FuelEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.entries[0], nil
}

func (f *fakeFuel) Create(ctx context.Context, userID, vehicleID int64, in *models.FuelEntryInput) (writequeue.Handle, error) {
	if f.err != nil {
		return writequeue.Handle{}, f.err
	}
	return writequeue.Handle{ID: "job-2"}, nil
}

func (f *fakeFuel) Update(ctx context.Context, userID, entryID int64, in *models.FuelEntryInput) (writequeue.Handle, error) {
	return f.Create(ctx, userID, 0, in)
}

func (f *fakeFuel) Delete(ctx context.Context, userID, entryID int64) (writequeue.Handle, error) {
	return f.Create(ctx, userID, 0, nil)
}

type fakeReceipts struct{ err error }

func (f *fakeReceipts) PrepareUpload(ctx context.Context, userID, entryID int64) (string, writequeue.Handle, error) {
	if f.err != nil {
		return "", writequeue.Handle{}, f.err
	}
	return "https://s3.local/put/key", writequeue.Handle{ID: "job-3"}, nil
}

func (f *fakeReceipts) FetchURL(ctx context.Context, userID, entryID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/get/key", nil
}

type fakeEvents struct {
	err    error
	events []models.ServiceEvent
}

func (f *fakeEvents) List(ctx context.Context, userID, vehicleID int64) ([]models.ServiceEvent, error) {
	return f.events, f.err
}

func (f *fakeEvents) Get(ctx context.Context, userID, eventID int64) (*models.ServiceEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &f.events[0], nil
}

func (f *fakeEvents) Create(ctx context.Context, userID, vehicleID int64, in *models.ServiceEventInput) (writequeue.Handle, error) {
	if f.err != nil {
		return writequeue.Handle{}, f.err
	}
	return writequeue.Handle{ID: "job-4"}, nil
}

func (f *fakeEvents) Update(ctx context.Context, userID, eventID int64, in *models.ServiceEventInput) (writequeue.Handle, error) {
	return f.Create(ctx, userID, 0, in)
}

func (f *fakeEvents) Delete(ctx context.Context, userID, eventID int64) (writequeue.Handle, error) {
	return f.Create(ctx, userID, 0, nil)
}

type fakeReports struct {
	err     error
	monthly *reports.MonthlyReport
}

func (f *fakeReports) Consumption(ctx context.Context, userID, vehicleID int64) (*reports.Consumption, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &reports.Consumption{Distance: 500, LitersUsed: 78, AvgConsumption: 15.6}, nil
}

func (f *fakeReports) Monthly(ctx context.Context, userID, vehicleID int64, year, month int) (*reports.MonthlyReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.monthly, nil
}

func (f *fakeReports) MonthlyCSV(ctx context.Context, w io.Writer, userID, vehicleID int64, year, month int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if err := reports.WriteCSV(w, f.monthly); err != nil {
		return "", err
	}
	return reports.CSVFilename(vehicleID, year, month), nil
}

type fakeQueue struct{ stats writequeue.Stats }

func (f *fakeQueue) Stats() writequeue.Stats { return f.stats }

type fixture struct {
	router   http.Handler
	auth     *fakeAuth
	vehicles *fakeVehicles
	fuel     *fakeFuel
	receipts *fakeReceipts
	events   *fakeEvents
	reports  *fakeReports
	queue    *fakeQueue
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		auth:     &fakeAuth{},
		vehicles: &fakeVehicles{vehicles: []models.Vehicle{{ID: 5, Make: "VW", Model: "Golf"}}},
		fuel:     &fakeFuel{entries: []models.FuelEntry{{ID: 9, VehicleID: 5, Odometer: 10000, Liters: 40}}},
		receipts: &fakeReceipts{},
		events:   &fakeEvents{events: []models.ServiceEvent{{ID: 3, VehicleID: 5, Type: "oil change"}}},
		reports:  &fakeReports{monthly: reports.BuildMonthly(5, 2024, 3, nil)},
		queue:    &fakeQueue{},
	}
	f.router = NewRouter(
		&AuthHandler{Auth: f.auth},
		&VehicleHandler{Vehicles: f.vehicles},
		&FuelHandler{Fuel: f.fuel, Receipts: f.receipts},
		&EventHandler{Events: f.events},
		&ReportHandler{Reports: f.reports},
		&QueueHandler{Queue: f.queue},
		testSecret,
		zap.NewNop(),
	)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if authed {
		token, err := auth.GenerateToken(42, testSecret, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/register", `{"email":"a@b.c","password":"pw"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok", resp["token"])

	rec = f.do(t, http.MethodPost, "/api/login", `{"email":"a@b.c","password":"pw"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterConflict(t *testing.T) {
	f := newFixture(t)
	f.auth.registerErr = common.ErrorAlreadyExists

	rec := f.do(t, http.MethodPost, "/api/register", `{"email":"a@b.c","password":"pw"}`, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.auth.loginErr = common.ErrorUnauthorized

	rec := f.do(t, http.MethodPost, "/api/login", `{"email":"a@b.c","password":"pw"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	rec = f.do(t, http.MethodGet, "/api/vehicles", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	// the principal from the token reaches the service
	assert.Equal(t, int64(42), f.vehicles.lastUser)
}

func TestVehicleCreateAccepted(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/vehicles", `{"make":"VW","model":"Golf"}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp["status"])
	assert.Equal(t, "job-1", resp["job_id"])
}

func TestVehicleCreateMalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/vehicles", `{"make":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", common.ErrorNotFound, http.StatusNotFound},
		{"permission denied", common.ErrorPermissionDenied, http.StatusForbidden},
		{"validation", common.ErrorValidation, http.StatusBadRequest},
		{"internal", fmt.Errorf("db error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.vehicles.err = tt.err

			rec := f.do(t, http.MethodGet, "/api/vehicles/5", "", true)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestFuelEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles/5/fuel", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/vehicles/5/fuel",
		`{"odometer":"12 500","liters":"41,5","price_per_liter":6.1}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/fuel/9", "", true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/fuel/abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiptEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/fuel/9/receipt", "", true)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://s3.local/put/key", resp["upload_url"])

	rec = f.do(t, http.MethodGet, "/api/fuel/9/receipt", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	f.receipts.err = common.ErrorNotFound
	rec = f.do(t, http.MethodGet, "/api/fuel/9/receipt", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServiceEventEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles/5/services", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/vehicles/5/services", `{"title":"brake pads","cost":240}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/services/3", `{"type":"inspection","cost":65}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestConsumptionReport(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles/5/reports/consumption", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var c reports.Consumption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, int64(500), c.Distance)

	f.reports.err = common.ErrorInsufficientData
	rec = f.do(t, http.MethodGet, "/api/vehicles/5/reports/consumption", "", true)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMonthlyReport(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles/5/reports/monthly?year=2024&month=3", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/vehicles/5/reports/monthly", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMonthlyCSVDownload(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vehicles/5/reports/monthly.csv?year=2024&month=3", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report_vehicle_5_2024_03.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "vehicle_id,5"))
}

func TestQueueStatus(t *testing.T) {
	f := newFixture(t)
	f.queue.stats = writequeue.Stats{
		Pending:   2,
		Processed: 10,
		Failed:    1,
		RecentErrors: []writequeue.FailedJob{
			{JobID: "job-x", Err: "boom", Attempts: 3},
		},
	}

	rec := f.do(t, http.MethodGet, "/api/queue/status", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var st writequeue.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 2, st.Pending)
	require.Len(t, st.RecentErrors, 1)
	assert.Equal(t, "job-x", st.RecentErrors[0].JobID)
}
