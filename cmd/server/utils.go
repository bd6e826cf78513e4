package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/models"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondStoreError maps any store failure to a 500 with the detail in the
// body, matching the documented error envelope.
func (rm *RouteManager) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	rm.logger.Errorw("Store operation failed", "method", r.Method, "path", r.URL.Path, "error", err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{"err": err.Error()})
}

// nonNil keeps empty result sets encoding as [] rather than null.
func nonNil(readings []models.StationReading) []models.StationReading {
	if readings == nil {
		return []models.StationReading{}
	}
	return readings
}
