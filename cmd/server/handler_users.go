package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type createUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Permissions string `json:"permissions"`
}

// createUserHandler registers a new account. The endpoint is open so that
// students can self-register; duplicate usernames are permitted.
func (rm *RouteManager) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := rm.dbManager.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.Permissions); err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// deleteUserHandler deletes a single account by path id. An unknown id
// reports deletedCount 0.
func (rm *RouteManager) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	result, err := rm.dbManager.DeleteUser(r.Context(), id)
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type userIDsRequest struct {
	ID1         string   `json:"id1"`
	ID2         string   `json:"id2"`
	IDs         []string `json:"ids"`
	Permissions string   `json:"permissions"`
}

// idSet collects the non-empty ids across the legacy pair fields and the
// list form, preserving order.
func (req *userIDsRequest) idSet() []string {
	var ids []string
	if req.ID1 != "" {
		ids = append(ids, req.ID1)
	}
	if req.ID2 != "" {
		ids = append(ids, req.ID2)
	}
	for _, id := range req.IDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// deleteUsersHandler deletes every account named in the request body.
func (rm *RouteManager) deleteUsersHandler(w http.ResponseWriter, r *http.Request) {
	var req userIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := rm.dbManager.DeleteUsers(r.Context(), req.idSet())
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// updatePermissionsHandler sets the access level on every account named in
// the request body.
func (rm *RouteManager) updatePermissionsHandler(w http.ResponseWriter, r *http.Request) {
	var req userIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := rm.dbManager.UpdatePermissions(r.Context(), req.idSet(), req.Permissions)
	if err != nil {
		rm.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
