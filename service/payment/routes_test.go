package payment

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

func TestCredentialsForPicksActiveBundle(t *testing.T) {
	settings := models.BkashSettings{
		Mode:                "production",
		SandboxAppKey:       "sandbox-key",
		SandboxAppSecret:    "sandbox-secret",
		SandboxBaseURL:      "https://sandbox.example",
		ProductionAppKey:    "prod-key",
		ProductionAppSecret: "prod-secret",
		ProductionUsername:  "merchant",
		ProductionPassword:  "pw",
		ProductionBaseURL:   "https://prod.example",
	}

	creds, err := CredentialsFor(settings)
	require.NoError(t, err)
	assert.Equal(t, "prod-key", creds.AppKey)
	assert.Equal(t, "https://prod.example", creds.BaseURL)

	settings.Mode = "sandbox"
	creds, err = CredentialsFor(settings)
	require.NoError(t, err)
	assert.Equal(t, "sandbox-key", creds.AppKey)
	assert.Equal(t, "https://sandbox.example", creds.BaseURL)
}

func TestCredentialsForRejectsUnknownMode(t *testing.T) {
	_, err := CredentialsFor(models.BkashSettings{Mode: "staging"})
	assert.Error(t, err)
}

func TestCredentialsForRejectsIncompleteBundle(t *testing.T) {
	settings := models.BkashSettings{
		Mode:          "sandbox",
		SandboxAppKey: "key-only",
	}
	_, err := CredentialsFor(settings)
	assert.Error(t, err)
}

func TestCreatePaymentRejectsBadBody(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)

	req := httptest.NewRequest("POST", "/payments/create", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	handler.CreatePayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePaymentRejectsMissingReference(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)

	req := httptest.NewRequest("POST", "/payments/create", bytes.NewBufferString(`{"reference":"  "}`))
	rec := httptest.NewRecorder()
	handler.CreatePayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePaymentRejectsUnknownReferenceFormat(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)

	req := httptest.NewRequest("POST", "/payments/create", bytes.NewBufferString(`{"reference":"INV-12345"}`))
	rec := httptest.NewRecorder()
	handler.CreatePayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCallbackRequiresPaymentID(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)

	req := httptest.NewRequest("GET", "/payments/callback?status=success", nil)
	rec := httptest.NewRecorder()
	handler.HandleCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientForReusesClientWhileVersionUnchanged(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)
	settings := models.BkashSettings{
		Version:          1,
		Mode:             "sandbox",
		SandboxAppKey:    "key",
		SandboxAppSecret: "secret",
		SandboxUsername:  "merchant",
		SandboxPassword:  "pw",
		SandboxBaseURL:   "https://sandbox.example",
	}

	first, err := handler.clientFor(settings)
	require.NoError(t, err)
	second, err := handler.clientFor(settings)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestClientForRebuildsOnNewVersion(t *testing.T) {
	handler := NewPaymentHandler(nil, nil)
	settings := models.BkashSettings{
		Version:          1,
		Mode:             "sandbox",
		SandboxAppKey:    "key",
		SandboxAppSecret: "secret",
		SandboxUsername:  "merchant",
		SandboxPassword:  "pw",
		SandboxBaseURL:   "https://sandbox.example",
	}

	first, err := handler.clientFor(settings)
	require.NoError(t, err)

	settings.Version = 2
	settings.SandboxAppKey = "rotated-key"
	second, err := handler.clientFor(settings)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, "rotated-key", second.creds.AppKey)
}

func TestPendingKey(t *testing.T) {
	assert.Equal(t, "payment:pending:TR0011abc", pendingKey("TR0011abc"))
}
