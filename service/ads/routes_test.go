package ads

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

func newTestHandler(t *testing.T) *AdHandler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AdSettings{}))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewAdHandler(db, rdb)
}

func getInterstitial(t *testing.T, handler *AdHandler, session string) interstitialResponse {
	t.Helper()

	req := httptest.NewRequest("GET", "/ads/interstitial?session="+session, nil)
	rec := httptest.NewRecorder()
	handler.GetInterstitial(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp interstitialResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestInterstitialShownOncePerSession(t *testing.T) {
	handler := newTestHandler(t)
	require.NoError(t, handler.db.Create(&models.AdSettings{
		Enabled:            true,
		DelaySeconds:       5,
		ShowOncePerSession: true,
		DesktopImageURL:    "/images/ad.png",
	}).Error)

	first := getInterstitial(t, handler, "sess-1")
	assert.True(t, first.Show)
	assert.Equal(t, 5, first.DelaySeconds)

	second := getInterstitial(t, handler, "sess-1")
	assert.False(t, second.Show)

	// A different session is unaffected by the first one's mark.
	other := getInterstitial(t, handler, "sess-2")
	assert.True(t, other.Show)
}

func TestInterstitialRepeatsWhenOncePerSessionOff(t *testing.T) {
	handler := newTestHandler(t)
	settings := models.AdSettings{
		Enabled:        true,
		MobileImageURL: "/images/ad-mobile.png",
	}
	require.NoError(t, handler.db.Create(&settings).Error)
	// Cleared separately: gorm skips zero values for columns with defaults.
	require.NoError(t, handler.db.Model(&settings).Update("show_once_per_session", false).Error)

	assert.True(t, getInterstitial(t, handler, "sess-1").Show)
	assert.True(t, getInterstitial(t, handler, "sess-1").Show)
}

func TestInterstitialHiddenWhenDisabledOrImageless(t *testing.T) {
	handler := newTestHandler(t)

	// No settings row at all degrades to a no-op.
	assert.False(t, getInterstitial(t, handler, "sess-1").Show)

	require.NoError(t, handler.db.Create(&models.AdSettings{
		Enabled: true,
	}).Error)
	assert.False(t, getInterstitial(t, handler, "sess-1").Show)
}

func TestSeenKey(t *testing.T) {
	assert.Equal(t, "interstitial:seen:abc123", seenKey("abc123"))
}

func TestUpdateSettingsRejectsBadBody(t *testing.T) {
	handler := NewAdHandler(nil, nil)

	req := httptest.NewRequest("PUT", "/ads/settings", bytes.NewBufferString("{bad"))
	rec := httptest.NewRecorder()
	handler.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingsRejectsNegativeDelays(t *testing.T) {
	handler := NewAdHandler(nil, nil)

	req := httptest.NewRequest("PUT", "/ads/settings",
		bytes.NewBufferString(`{"delay_seconds":-1}`))
	rec := httptest.NewRecorder()
	handler.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingsRejectsEnabledWithoutImage(t *testing.T) {
	handler := NewAdHandler(nil, nil)

	req := httptest.NewRequest("PUT", "/ads/settings",
		bytes.NewBufferString(`{"enabled":true,"delay_seconds":5}`))
	rec := httptest.NewRecorder()
	handler.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
