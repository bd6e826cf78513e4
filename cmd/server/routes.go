package main

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/database"
)

// RouteManager handles all API routes
type RouteManager struct {
	dbManager *database.DatabaseManager
	logger    *zap.SugaredLogger
	Router    *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(dbManager *database.DatabaseManager, logger *zap.SugaredLogger) *RouteManager {
	return &RouteManager{
		dbManager: dbManager,
		logger:    logger,
		Router:    mux.NewRouter(),
	}
}

// Setup configures all API routes. Write and delete endpoints are wrapped
// with the permissions guard; user creation and the read-only station
// queries are open, matching the documented access model.
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.requestIDMiddleware)
	r.Use(rm.corsMiddleware)

	// Health check
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")

	// Station readings
	r.HandleFunc("/weatherStations/", rm.requireWriteAccess(rm.insertReadingHandler)).Methods("POST")
	r.HandleFunc("/weatherStation/update", rm.requireWriteAccess(rm.attachFahrenheitHandler)).Methods("PUT")
	r.HandleFunc("/weatherStations/update", rm.requireWriteAccess(rm.updateLocationHandler)).Methods("PUT")
	r.HandleFunc("/maxRainfall", rm.maxRainfallHandler).Methods("GET")
	r.HandleFunc("/weatherStations/{time}/{device}", rm.findByTimeAndDeviceHandler).Methods("GET")
	r.HandleFunc("/batches", rm.batchesHandler).Methods("GET")
	r.HandleFunc("/byIndex", rm.byIndexHandler).Methods("GET")

	// User registry
	r.HandleFunc("/user", rm.createUserHandler).Methods("POST")
	r.HandleFunc("/user/{id}/delete", rm.requireWriteAccess(rm.deleteUserHandler)).Methods("DELETE")
	r.HandleFunc("/users/delete", rm.requireWriteAccess(rm.deleteUsersHandler)).Methods("DELETE")
	r.HandleFunc("/users/update", rm.requireWriteAccess(rm.updatePermissionsHandler)).Methods("PUT")
}
