package user

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRefreshTokenShape(t *testing.T) {
	token, err := generateRefreshToken(42)
	require.NoError(t, err)

	parts := strings.SplitN(token, "_", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "42", parts[0])
	assert.Len(t, parts[1], 64)
	assert.Len(t, parts[2], 64)
}

func TestGenerateRefreshTokenIsUnique(t *testing.T) {
	a, err := generateRefreshToken(1)
	require.NoError(t, err)
	b, err := generateRefreshToken(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGenerateJWTSignsWithRuntimeSecret(t *testing.T) {
	// The secret may only appear in the environment after init, once the
	// env file is loaded. Tokens must still verify against it.
	t.Setenv("SECRET_KEY", "late-loaded-secret")

	signed, err := generateJWT(7, 60)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("late-loaded-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "7", claims.Subject)
}

func TestLoginRejectsBadBody(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRequiresCredentials(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest("POST", "/auth/login",
		bytes.NewBufferString(`{"email":"admin@example.com"}`))
	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRequiresToken(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest("POST", "/auth/refresh", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler.handleRefreshToken(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordResetRejectsShortPassword(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest("POST", "/auth/reset-password/confirm",
		bytes.NewBufferString(`{"email":"admin@example.com","token":"123456","password":"short"}`))
	rec := httptest.NewRecorder()
	handler.handlePasswordReset(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	handler := NewHandler(nil)

	req := httptest.NewRequest("POST", "/auth/admins",
		bytes.NewBufferString(`{"full_name":"Admin","email":"a@b.com","password":"1234"}`))
	rec := httptest.NewRecorder()
	handler.CreateAdmin(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
