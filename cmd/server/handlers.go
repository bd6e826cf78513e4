package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/models"
)

// insertReadingHandler stores a new weather station reading. Fields are
// stored exactly as supplied; missing or malformed values are not rejected.
func (rm *RouteManager) insertReadingHandler(w http.ResponseWriter, r *http.Request) {
	var reading models.StationReading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := rm.dbManager.InsertReading(r.Context(), reading); err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

type attachFahrenheitRequest struct {
	ID1   string `json:"id1"`
	TempC string `json:"tempC"`
}

// attachFahrenheitHandler converts tempC and stores tempF on one reading.
func (rm *RouteManager) attachFahrenheitHandler(w http.ResponseWriter, r *http.Request) {
	var req attachFahrenheitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := rm.dbManager.AttachFahrenheit(r.Context(), req.ID1, req.TempC)
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type updateLocationRequest struct {
	DeviceName string `json:"deviceName"`
	Location   string `json:"location"`
}

// updateLocationHandler rewrites the coordinates on every reading from a
// device. Zero matching documents is a success with zero counts.
func (rm *RouteManager) updateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var req updateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := rm.dbManager.UpdateLocationByDevice(r.Context(), req.DeviceName, req.Location)
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// maxRainfallHandler returns the reading with the maximum recorded rainfall.
func (rm *RouteManager) maxRainfallHandler(w http.ResponseWriter, r *http.Request) {
	readings, err := rm.dbManager.MaxRainfall(r.Context())
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"maxRainfallResults": nonNil(readings)})
}

// findByTimeAndDeviceHandler returns readings from a specific station at a
// given time.
func (rm *RouteManager) findByTimeAndDeviceHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	readings, err := rm.dbManager.FindByTimeAndDevice(r.Context(), vars["time"], vars["device"])
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"results": nonNil(readings)})
}

// batchesHandler returns readings above the rainfall threshold, fetched
// from the store in batches and flattened for the caller.
func (rm *RouteManager) batchesHandler(w http.ResponseWriter, r *http.Request) {
	readings, err := rm.dbManager.FindBatchAboveRainfall(r.Context(), "")
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"byBatch": nonNil(readings)})
}

// byIndexHandler returns the top readings by rainfall using the indexed
// sort key.
func (rm *RouteManager) byIndexHandler(w http.ResponseWriter, r *http.Request) {
	readings, err := rm.dbManager.TopByRainfall(r.Context())
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"byIndex": nonNil(readings)})
}
