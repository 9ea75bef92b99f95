package settings

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

func TestValidateSerialType(t *testing.T) {
	valid := models.SerialTypeSetting{Name: "morning", StartSerial: 1, MaxSerials: 30}
	assert.Empty(t, validateSerialType(valid))

	assert.NotEmpty(t, validateSerialType(models.SerialTypeSetting{StartSerial: 1, MaxSerials: 30}))
	assert.NotEmpty(t, validateSerialType(models.SerialTypeSetting{Name: "morning", StartSerial: 0, MaxSerials: 30}))
	assert.NotEmpty(t, validateSerialType(models.SerialTypeSetting{Name: "morning", StartSerial: 1, MaxSerials: 0}))
}

func TestUpdateContactSettingsRejectsBadBody(t *testing.T) {
	handler := NewSettingsHandler(nil)

	req := httptest.NewRequest("PUT", "/settings/contact", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	handler.UpdateContactSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateContactSettingsRejectsNegativeFee(t *testing.T) {
	handler := NewSettingsHandler(nil)

	req := httptest.NewRequest("PUT", "/settings/contact",
		bytes.NewBufferString(`{"outside_city_fee":-50}`))
	rec := httptest.NewRecorder()
	handler.UpdateContactSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSerialTypeRejectsMissingName(t *testing.T) {
	handler := NewSettingsHandler(nil)

	req := httptest.NewRequest("POST", "/settings/serial-types",
		bytes.NewBufferString(`{"start_serial":1,"max_serials":30}`))
	rec := httptest.NewRecorder()
	handler.CreateSerialType(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveBkashSettingsRejectsUnknownMode(t *testing.T) {
	handler := NewSettingsHandler(nil)

	req := httptest.NewRequest("PUT", "/settings/bkash",
		bytes.NewBufferString(`{"mode":"staging"}`))
	rec := httptest.NewRecorder()
	handler.SaveBkashSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSerialTypeRejectsInvalidID(t *testing.T) {
	handler := NewSettingsHandler(nil)

	req := httptest.NewRequest("PUT", "/settings/serial-types/abc",
		bytes.NewBufferString(`{"name":"morning","start_serial":1,"max_serials":30}`))
	rec := httptest.NewRecorder()
	handler.UpdateSerialType(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
