package main

import "net/http"

// healthHandler reports service liveness and store connectivity.
func (rm *RouteManager) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := rm.dbManager.Ping(r.Context()); err != nil {
		rm.logger.Errorw("Health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
