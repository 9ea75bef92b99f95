package ambulance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

func newDriverTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AmbulanceDriver{}))
	return db
}

func TestGenerateAccessCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateAccessCode()
		assert.Len(t, code, 8)
		for _, c := range code {
			assert.Contains(t, accessCodeAlphabet, string(c))
		}
		seen[code] = true
	}
	// 50 draws from a 32^8 space colliding would mean a broken generator
	assert.Len(t, seen, 50)
}

func TestValidRequestStatus(t *testing.T) {
	for _, s := range []string{"pending", "assigned", "completed", "cancelled"} {
		assert.True(t, validRequestStatus(s))
	}
	assert.False(t, validRequestStatus("confirmed"))
	assert.False(t, validRequestStatus(""))
}

func TestCreateDriverRequiresNameAndPhone(t *testing.T) {
	h := NewAmbulanceHandler(nil, nil)

	req := httptest.NewRequest("POST", "/api/v1/ambulance/drivers",
		strings.NewReader(`{"vehicle_type":"AC Ambulance"}`))
	rec := httptest.NewRecorder()

	h.CreateDriver(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDriverInsertsNewRow(t *testing.T) {
	db := newDriverTestDB(t)
	h := NewAmbulanceHandler(db, nil)

	req := httptest.NewRequest("POST", "/api/v1/ambulance/drivers",
		strings.NewReader(`{"name":"Rahim","phone":"01800000000","vehicle_type":"AC Ambulance","area":"Medical More"}`))
	rec := httptest.NewRecorder()

	h.CreateDriver(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var drivers []models.AmbulanceDriver
	require.NoError(t, db.Find(&drivers).Error)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Rahim", drivers[0].Name)
	assert.Equal(t, "01800000000", drivers[0].Phone)
	assert.Equal(t, "AC Ambulance", drivers[0].VehicleType)
	assert.NotZero(t, drivers[0].ID)
}

func TestUpdateDriverEditsExistingRow(t *testing.T) {
	db := newDriverTestDB(t)
	h := NewAmbulanceHandler(db, nil)

	driver := models.AmbulanceDriver{Name: "Rahim", Phone: "01800000000", VehicleType: "AC Ambulance"}
	require.NoError(t, db.Create(&driver).Error)
	createdAt := driver.UpdatedAt

	time.Sleep(20 * time.Millisecond)

	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/v1/ambulance/drivers/%d", driver.ID),
		strings.NewReader(`{"name":"Rahim Mia","phone":"01800000001","vehicle_type":"ICU Ambulance","has_oxygen":true}`))
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(driver.ID)})
	rec := httptest.NewRecorder()

	h.UpdateDriver(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AmbulanceDriver
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, driver.ID, resp.ID)

	// The edit lands on the existing row rather than inserting a second one.
	var drivers []models.AmbulanceDriver
	require.NoError(t, db.Find(&drivers).Error)
	require.Len(t, drivers, 1)
	assert.Equal(t, "Rahim Mia", drivers[0].Name)
	assert.Equal(t, "01800000001", drivers[0].Phone)
	assert.Equal(t, "ICU Ambulance", drivers[0].VehicleType)
	assert.True(t, drivers[0].HasOxygen)
	assert.True(t, drivers[0].UpdatedAt.After(createdAt))
}

func TestUpdateDriverUnknownIDReturnsNotFound(t *testing.T) {
	db := newDriverTestDB(t)
	h := NewAmbulanceHandler(db, nil)

	req := httptest.NewRequest("PUT", "/api/v1/ambulance/drivers/99",
		strings.NewReader(`{"name":"Rahim","phone":"01800000000"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "99"})
	rec := httptest.NewRecorder()

	h.UpdateDriver(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.AmbulanceDriver{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRequestRequiresLocations(t *testing.T) {
	h := NewAmbulanceHandler(nil, nil)

	req := httptest.NewRequest("POST", "/api/v1/ambulance/requests",
		strings.NewReader(`{"requester_name":"Karim","requester_phone":"01700000000"}`))
	rec := httptest.NewRecorder()

	h.CreateRequest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRequestStatusRejectsUnknownStatus(t *testing.T) {
	h := NewAmbulanceHandler(nil, nil)

	req := httptest.NewRequest("PATCH", "/api/v1/ambulance/requests/1/status",
		strings.NewReader(`{"status":"rebooked"}`))
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec := httptest.NewRecorder()

	h.UpdateRequestStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
