package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// NewRouter mounts the API.
//
// Public:
//
//	POST /api/register
//	POST /api/login
//
// Bearer-authenticated:
//
//	GET  /api/queue/status
//	GET/POST /api/vehicles, GET/PUT/DELETE /api/vehicles/{vehicleID}
//	GET/POST /api/vehicles/{vehicleID}/fuel
//	GET/PUT/DELETE /api/fuel/{entryID}
//	POST/GET /api/fuel/{entryID}/receipt
//	GET/POST /api/vehicles/{vehicleID}/services
//	GET/PUT/DELETE /api/services/{eventID}
//	GET /api/vehicles/{vehicleID}/reports/consumption
//	GET /api/vehicles/{vehicleID}/reports/monthly[.csv]?year=&month=
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	fuelHandler *FuelHandler,
	eventHandler *EventHandler,
	reportHandler *ReportHandler,
	queueHandler *QueueHandler,
	secretKey []byte,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(secretKey))

			r.Get("/queue/status", queueHandler.Status)

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", vehicleHandler.List)
				r.Post("/", vehicleHandler.Create)

				r.Route("/{vehicleID}", func(r chi.Router) {
					r.Get("/", vehicleHandler.Get)
					r.Put("/", vehicleHandler.Update)
					r.Delete("/", vehicleHandler.Delete)

					r.Get("/fuel", fuelHandler.List)
					r.Post("/fuel", fuelHandler.Create)
					r.Get("/services", eventHandler.List)
					r.Post("/services", eventHandler.Create)

					r.Get("/reports/consumption", reportHandler.Consumption)
					r.Get("/reports/monthly", reportHandler.Monthly)
					r.Get("/reports/monthly.csv", reportHandler.MonthlyCSV)
				})
			})

			r.Route("/fuel/{entryID}", func(r chi.Router) {
				r.Get("/", fuelHandler.Get)
				r.Put("/", fuelHandler.Update)
				r.Delete("/", fuelHandler.Delete)
				r.Post("/receipt", fuelHandler.UploadReceipt)
				r.Get("/receipt", fuelHandler.GetReceipt)
			})

			r.Route("/services/{eventID}", func(r chi.Router) {
				r.Get("/", eventHandler.Get)
				r.Put("/", eventHandler.Update)
				r.Delete("/", eventHandler.Delete)
			})
		})
	})

	return r
}
