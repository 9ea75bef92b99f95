package appointment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{models.AppointmentStatusPending, models.AppointmentStatusConfirmed},
		{models.AppointmentStatusPending, models.AppointmentStatusCancelled},
		{models.AppointmentStatusConfirmed, models.AppointmentStatusCompleted},
		{models.AppointmentStatusConfirmed, models.AppointmentStatusCancelled},
	}
	for _, edge := range allowed {
		assert.True(t, canTransition(edge[0], edge[1]), "%s -> %s should be allowed", edge[0], edge[1])
	}

	denied := [][2]string{
		{models.AppointmentStatusPending, models.AppointmentStatusCompleted},
		{models.AppointmentStatusCancelled, models.AppointmentStatusConfirmed},
		{models.AppointmentStatusCompleted, models.AppointmentStatusPending},
		{models.AppointmentStatusConfirmed, models.AppointmentStatusPending},
	}
	for _, edge := range denied {
		assert.False(t, canTransition(edge[0], edge[1]), "%s -> %s should be denied", edge[0], edge[1])
	}
}

func TestNextActionsAfterConfirm(t *testing.T) {
	// once confirmed the admin sees complete/cancel, never confirm again
	actions := nextActions(models.AppointmentStatusConfirmed)
	assert.ElementsMatch(t, []string{
		models.AppointmentStatusCompleted,
		models.AppointmentStatusCancelled,
	}, actions)

	assert.Empty(t, nextActions(models.AppointmentStatusCompleted))
	assert.Empty(t, nextActions(models.AppointmentStatusCancelled))
}

func TestNewBookingRef(t *testing.T) {
	ref := newBookingRef()
	assert.True(t, strings.HasPrefix(ref, "APT-"))
	assert.Len(t, ref, len("APT-")+8)
	assert.NotEqual(t, ref, newBookingRef())
}

func TestBookAppointmentRejectsBadBody(t *testing.T) {
	h := NewAppointmentHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/appointments/book", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookAppointmentRequiresPatientFields(t *testing.T) {
	h := NewAppointmentHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/appointments/book",
		strings.NewReader(`{"doctor_id":1,"appointment_date":"2026-09-10"}`))
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookAppointmentRejectsBadDate(t *testing.T) {
	h := NewAppointmentHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/appointments/book",
		strings.NewReader(`{"doctor_id":1,"patient_name":"Rahim","patient_phone":"01700000000","appointment_date":"10/09/2026"}`))
	rec := httptest.NewRecorder()

	h.BookAppointment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
