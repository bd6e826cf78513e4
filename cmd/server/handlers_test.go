package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/database"
	"github.com/Sy5000/coursework.tafe-weatherstation-atm41-restapi/pkg/models"
)

func setupTestServer(t *testing.T) (*RouteManager, *database.MemoryCollection, *database.MemoryCollection) {
	t.Helper()

	readings := database.NewMemoryCollection()
	users := database.NewMemoryCollection()
	dm := database.NewDatabaseManagerWithCollections(readings, users, zap.NewNop().Sugar())

	rm := NewRouteManager(dm, zap.NewNop().Sugar())
	rm.Setup()

	return rm, readings, users
}

func doRequest(rm *RouteManager, method, path, permissions, body string) *httptest.ResponseRecorder {
	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reqBody)
	if permissions != "" {
		req.Header.Set("permissions", permissions)
	}

	rec := httptest.NewRecorder()
	rm.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestGuardDeniesWriteWithoutPermissions(t *testing.T) {
	rm, readings, _ := setupTestServer(t)

	rec := doRequest(rm, "POST", "/weatherStations/", "", `{"deviceName":"atm41-01"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.String() != "No Access ⛔️" {
		t.Errorf("unexpected denial body %q", rec.Body.String())
	}
	if readings.Count() != 0 {
		t.Errorf("denied request must not reach the store, found %d documents", readings.Count())
	}
}

func TestGuardRoleMatrix(t *testing.T) {
	tests := []struct {
		permissions string
		wantCode    int
	}{
		{"admin", http.StatusOK},
		{"teacher", http.StatusOK},
		{"student", http.StatusUnauthorized},
		{"", http.StatusUnauthorized},
		{"Admin", http.StatusUnauthorized},
		{"superuser", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run("role_"+tt.permissions, func(t *testing.T) {
			rm, _, _ := setupTestServer(t)

			rec := doRequest(rm, "PUT", "/weatherStations/update", tt.permissions, `{"deviceName":"atm41-01","location":"-33.86, 151.20"}`)
			if rec.Code != tt.wantCode {
				t.Errorf("permissions %q: expected %d, got %d", tt.permissions, tt.wantCode, rec.Code)
			}
		})
	}
}

func TestInsertReadingEndpoint(t *testing.T) {
	rm, readings, _ := setupTestServer(t)

	body := `{"deviceName":"atm41-01","time":"2022-05-07T02:00:00.000Z","tempC":"10","rainfall":"5"}`
	rec := doRequest(rm, "POST", "/weatherStations/", "teacher", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	if !resp["ok"] {
		t.Errorf("expected ok response, got %v", resp)
	}
	if readings.Count() != 1 {
		t.Errorf("expected 1 stored reading, got %d", readings.Count())
	}
}

func TestInsertReadingRejectsBadJSON(t *testing.T) {
	rm, readings, _ := setupTestServer(t)

	rec := doRequest(rm, "POST", "/weatherStations/", "admin", `{"deviceName":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if readings.Count() != 0 {
		t.Errorf("malformed body must not be stored")
	}
}

func TestFindByTimeAndDeviceEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	readingTime := "2022-05-07T02:00:00.000Z"
	rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01", Time: readingTime, Rainfall: "3"})
	rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-02", Time: readingTime, Rainfall: "7"})

	rec := doRequest(rm, "GET", "/weatherStations/"+readingTime+"/atm41-01", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Results []models.StationReading `json:"results"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].DeviceName != "atm41-01" {
		t.Errorf("unexpected device %q", resp.Results[0].DeviceName)
	}
}

func TestMaxRainfallEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	for _, rainfall := range []string{"5", "12", "9"} {
		rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01", Rainfall: rainfall})
	}

	rec := doRequest(rm, "GET", "/maxRainfall", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		MaxRainfallResults []models.StationReading `json:"maxRainfallResults"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.MaxRainfallResults) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.MaxRainfallResults))
	}
	// String ordering: "9" sorts above "12".
	if resp.MaxRainfallResults[0].Rainfall != "9" {
		t.Errorf("expected rainfall 9, got %q", resp.MaxRainfallResults[0].Rainfall)
	}
}

func TestMaxRainfallEmptyStore(t *testing.T) {
	rm, _, _ := setupTestServer(t)

	rec := doRequest(rm, "GET", "/maxRainfall", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"maxRainfallResults":[]`) {
		t.Errorf("empty store must encode an empty array, got %q", rec.Body.String())
	}
}

func TestBatchesEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	for _, rainfall := range []string{"3", "50", "12", "6", "9"} {
		rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01", Rainfall: rainfall})
	}

	rec := doRequest(rm, "GET", "/batches", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		ByBatch []models.StationReading `json:"byBatch"`
	}
	decodeBody(t, rec, &resp)

	// String comparison against "5": "50", "6" and "9" qualify, "12" and "3" do not.
	if len(resp.ByBatch) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.ByBatch))
	}
	for _, reading := range resp.ByBatch {
		if !(reading.Rainfall > "5") {
			t.Errorf("rainfall %q should not have qualified", reading.Rainfall)
		}
	}
}

func TestByIndexEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01", Rainfall: "5"})
	}

	rec := doRequest(rm, "GET", "/byIndex", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		ByIndex []models.StationReading `json:"byIndex"`
	}
	decodeBody(t, rec, &resp)

	if len(resp.ByIndex) != 10 {
		t.Errorf("expected the result capped at 10, got %d", len(resp.ByIndex))
	}
}

func TestAttachFahrenheitEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	readingTime := "2022-05-07T02:00:00.000Z"
	id, err := rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01", Time: readingTime, TempC: "0"})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	body := `{"id1":"` + id.Hex() + `","tempC":"0"}`
	rec := doRequest(rm, "PUT", "/weatherStation/update", "teacher", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp database.ChangeResult
	decodeBody(t, rec, &resp)

	if resp.MatchedCount != 1 || resp.ModifiedCount != 1 {
		t.Errorf("expected matched/modified 1/1, got %d/%d", resp.MatchedCount, resp.ModifiedCount)
	}

	readings, err := rm.dbManager.FindByTimeAndDevice(ctx, readingTime, "atm41-01")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(readings) != 1 || readings[0].TempF != "32" {
		t.Errorf("expected tempF 32 on the stored reading, got %+v", readings)
	}
}

func TestAttachFahrenheitMalformedID(t *testing.T) {
	rm, _, _ := setupTestServer(t)

	rec := doRequest(rm, "PUT", "/weatherStation/update", "admin", `{"id1":"not-an-id","tempC":"10"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["err"] == "" {
		t.Errorf("expected error detail in body, got %q", rec.Body.String())
	}
}

func TestUpdateLocationEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01"})
	rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-01"})
	rm.dbManager.InsertReading(ctx, models.StationReading{DeviceName: "atm41-02"})

	body := `{"deviceName":"atm41-01","location":"-33.86, 151.20"}`
	rec := doRequest(rm, "PUT", "/weatherStations/update", "admin", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp database.ChangeResult
	decodeBody(t, rec, &resp)
	if resp.MatchedCount != 2 || resp.ModifiedCount != 2 {
		t.Errorf("expected matched/modified 2/2, got %d/%d", resp.MatchedCount, resp.ModifiedCount)
	}
}

func TestUpdateLocationZeroMatchesIsSuccess(t *testing.T) {
	rm, _, _ := setupTestServer(t)

	rec := doRequest(rm, "PUT", "/weatherStations/update", "admin", `{"deviceName":"ghost","location":"0, 0"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp database.ChangeResult
	decodeBody(t, rec, &resp)
	if resp.MatchedCount != 0 || resp.ModifiedCount != 0 {
		t.Errorf("expected zero counts, got %d/%d", resp.MatchedCount, resp.ModifiedCount)
	}
}

func TestCreateUserIsOpen(t *testing.T) {
	rm, _, users := setupTestServer(t)

	body := `{"username":"alice","email":"alice@example.com","password":"secret","permissions":"student"}`
	rec := doRequest(rm, "POST", "/user", "", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without permissions header, got %d: %s", rec.Code, rec.Body.String())
	}
	if users.Count() != 1 {
		t.Errorf("expected 1 stored user, got %d", users.Count())
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	id, err := rm.dbManager.CreateUser(ctx, "bob", "bob@example.com", "secret", "student")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	rec := doRequest(rm, "DELETE", "/user/"+id.Hex()+"/delete", "admin", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp database.DeleteResult
	decodeBody(t, rec, &resp)
	if resp.DeletedCount != 1 {
		t.Errorf("expected deletedCount 1, got %d", resp.DeletedCount)
	}

	// Second delete of the same id is still a success, with zero deleted.
	rec = doRequest(rm, "DELETE", "/user/"+id.Hex()+"/delete", "admin", "")
	decodeBody(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.DeletedCount != 0 {
		t.Errorf("expected 200 with deletedCount 0, got %d with %d", rec.Code, resp.DeletedCount)
	}
}

func TestDeleteUsersEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	id1, _ := rm.dbManager.CreateUser(ctx, "carol", "carol@example.com", "secret", "student")
	id2, _ := rm.dbManager.CreateUser(ctx, "dave", "dave@example.com", "secret", "student")

	body := `{"id1":"` + id1.Hex() + `","id2":"` + id2.Hex() + `"}`
	rec := doRequest(rm, "DELETE", "/users/delete", "teacher", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp database.DeleteResult
	decodeBody(t, rec, &resp)
	if resp.DeletedCount != 2 {
		t.Errorf("expected deletedCount 2, got %d", resp.DeletedCount)
	}
}

func TestDeleteUsersListForm(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"erin", "frank", "grace"} {
		id, _ := rm.dbManager.CreateUser(ctx, name, name+"@example.com", "secret", "student")
		ids = append(ids, `"`+id.Hex()+`"`)
	}

	body := `{"ids":[` + strings.Join(ids, ",") + `]}`
	rec := doRequest(rm, "DELETE", "/users/delete", "admin", body)

	var resp database.DeleteResult
	decodeBody(t, rec, &resp)
	if resp.DeletedCount != 3 {
		t.Errorf("expected deletedCount 3, got %d", resp.DeletedCount)
	}
}

func TestDeleteUsersEmptySet(t *testing.T) {
	rm, _, _ := setupTestServer(t)

	rec := doRequest(rm, "DELETE", "/users/delete", "admin", `{}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for empty id set, got %d", rec.Code)
	}
}

func TestUpdatePermissionsEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)
	ctx := context.Background()

	id1, _ := rm.dbManager.CreateUser(ctx, "heidi", "heidi@example.com", "secret", "student")
	id2, _ := rm.dbManager.CreateUser(ctx, "ivan", "ivan@example.com", "secret", "student")

	body := `{"id1":"` + id1.Hex() + `","id2":"` + id2.Hex() + `","permissions":"teacher"}`
	rec := doRequest(rm, "PUT", "/users/update", "admin", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp database.ChangeResult
	decodeBody(t, rec, &resp)
	if resp.MatchedCount != 2 || resp.ModifiedCount != 2 {
		t.Errorf("expected matched/modified 2/2, got %d/%d", resp.MatchedCount, resp.ModifiedCount)
	}
}

func TestStoreFailureReturns500(t *testing.T) {
	rm, readings, _ := setupTestServer(t)
	readings.FailWith = errors.New("connection reset by peer")

	rec := doRequest(rm, "GET", "/maxRainfall", "", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp["err"], "connection reset") {
		t.Errorf("expected failure detail in err field, got %q", resp["err"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	rm, _, _ := setupTestServer(t)

	rec := doRequest(rm, "GET", "/health", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}
