package doctor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Dr. Abdur Rahman":        "dr-abdur-rahman",
		"  Dr   Karim  ":          "dr-karim",
		"ENT & Head-Neck Surgery": "ent-head-neck-surgery",
		"Cardiology101":           "cardiology101",
	}

	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestCreateDoctorRejectsMissingFields(t *testing.T) {
	h := NewDoctorHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/doctors",
		strings.NewReader(`{"district":"Rangpur"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	// exercise the handler directly, auth is covered elsewhere
	h.CreateDoctor(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDoctorRejectsBadJSON(t *testing.T) {
	h := NewDoctorHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/doctors", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.CreateDoctor(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDoctorRejectsInvalidID(t *testing.T) {
	h := NewDoctorHandler(nil)

	req := httptest.NewRequest("PUT", "/api/v1/doctors/abc", strings.NewReader(`{}`))
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()

	h.UpdateDoctor(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDoctorRejectsInvalidID(t *testing.T) {
	h := NewDoctorHandler(nil)

	req := httptest.NewRequest("DELETE", "/api/v1/doctors/-", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "-"})
	rec := httptest.NewRecorder()

	h.DeleteDoctor(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
