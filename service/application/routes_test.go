package application

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestValidApplicationStatus(t *testing.T) {
	for _, status := range []string{"pending", "approved", "rejected"} {
		assert.True(t, validApplicationStatus(status))
	}
	for _, status := range []string{"", "done", "PENDING", "cancelled"} {
		assert.False(t, validApplicationStatus(status))
	}
}

func TestSubmitDoctorApplicationRequiresNameAndPhone(t *testing.T) {
	handler := NewApplicationHandler(nil)

	req := httptest.NewRequest("POST", "/applications/doctor",
		bytes.NewBufferString(`{"name":"Dr. Karim"}`))
	rec := httptest.NewRecorder()
	handler.SubmitDoctorApplication(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAmbulanceApplicationRequiresNameAndPhone(t *testing.T) {
	handler := NewApplicationHandler(nil)

	req := httptest.NewRequest("POST", "/applications/ambulance",
		bytes.NewBufferString(`{"phone":"01712345678"}`))
	rec := httptest.NewRecorder()
	handler.SubmitAmbulanceApplication(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitDataEditRequestRequiresDescription(t *testing.T) {
	handler := NewApplicationHandler(nil)

	req := httptest.NewRequest("POST", "/applications/data-edit",
		bytes.NewBufferString(`{"entity_type":"doctor"}`))
	rec := httptest.NewRecorder()
	handler.SubmitDataEditRequest(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownKind(t *testing.T) {
	handler := NewApplicationHandler(nil)

	req := httptest.NewRequest("PATCH", "/applications/vendor/1/status",
		bytes.NewBufferString(`{"status":"approved"}`))
	req = mux.SetURLVars(req, map[string]string{"kind": "vendor", "id": "1"})
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	handler := NewApplicationHandler(nil)

	req := httptest.NewRequest("PATCH", "/applications/doctor/1/status",
		bytes.NewBufferString(`{"status":"archived"}`))
	req = mux.SetURLVars(req, map[string]string{"kind": "doctor", "id": "1"})
	rec := httptest.NewRecorder()
	handler.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
