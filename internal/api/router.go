package api

import (
	"github.com/alexivanou/calendar-core/internal/service"
	"github.com/alexivanou/calendar-core/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/cities", handler.ListCities).Methods("GET")
	v1.HandleFunc("/cities/reload", handler.ReloadCities).Methods("POST")
	// registered before /city/{key} so "nearest" is not taken as a key
	v1.HandleFunc("/city/nearest", handler.FindNearestCity).Methods("GET")
	v1.HandleFunc("/city/{key}", handler.GetCity).Methods("GET")
	v1.HandleFunc("/countries", handler.ListCountries).Methods("GET")
	v1.HandleFunc("/languages", handler.GetAvailableLanguages).Methods("GET")

	v1.HandleFunc("/shift/day", handler.ShiftDay).Methods("GET")
	v1.HandleFunc("/shift/range", handler.ShiftRange).Methods("GET")
	v1.HandleFunc("/shift/schedule", handler.GetSchedule).Methods("GET")
	v1.HandleFunc("/shift/schedule", handler.ReplaceSchedule).Methods("PUT")

	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
