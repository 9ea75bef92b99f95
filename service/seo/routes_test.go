package seo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsCrawler(t *testing.T) {
	crawlers := []string{
		"facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)",
		"Twitterbot/1.0",
		"WhatsApp/2.23.20.0",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		"TelegramBot (like TwitterBot)",
		"Slackbot-LinkExpanding 1.0",
	}
	for _, ua := range crawlers {
		assert.True(t, IsCrawler(ua), "expected crawler: %s", ua)
	}

	humans := []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
		"",
	}
	for _, ua := range humans {
		assert.False(t, IsCrawler(ua), "expected human: %s", ua)
	}
}

func TestMetaForPathKnownRoute(t *testing.T) {
	meta, known := MetaForPath("/doctors")
	assert.True(t, known)
	assert.Equal(t, "/doctors", meta.Canonical)
	assert.NotEmpty(t, meta.Title)
	assert.NotEmpty(t, meta.Description)
}

func TestMetaForPathUnknownRouteFallsBack(t *testing.T) {
	meta, known := MetaForPath("/no-such-page")
	assert.False(t, known)
	assert.Equal(t, defaultMeta.Title, meta.Title)
}

func TestPrerenderRoutesExcludeNoIndex(t *testing.T) {
	routes := PrerenderRoutes()
	assert.NotEmpty(t, routes)
	assert.NotContains(t, routes, "/admin")
	assert.Contains(t, routes, "/")
	assert.Contains(t, routes, "/doctors")
}

func TestGetRouteMetaRequiresPath(t *testing.T) {
	handler := NewSEOHandler(nil)

	req := httptest.NewRequest("GET", "/seo/meta", nil)
	rec := httptest.NewRecorder()
	handler.GetRouteMeta(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRouteMetaUnknownPathIs404WithDefaults(t *testing.T) {
	handler := NewSEOHandler(nil)

	req := httptest.NewRequest("GET", "/seo/meta?path=/missing", nil)
	rec := httptest.NewRecorder()
	handler.GetRouteMeta(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var meta RouteMeta
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&meta))
	assert.Equal(t, defaultMeta.Title, meta.Title)
	assert.Equal(t, defaultMeta.Canonical, meta.Canonical)
}

func TestDoctorShellRedirectsHumans(t *testing.T) {
	handler := NewSEOHandler(nil)

	req := httptest.NewRequest("GET", "/og/doctor/dr-abdur-rahman", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")
	req = mux.SetURLVars(req, map[string]string{"slug": "dr-abdur-rahman"})
	rec := httptest.NewRecorder()
	handler.DoctorShell(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/doctors/dr-abdur-rahman")
}

func TestBlogShellRedirectsHumans(t *testing.T) {
	handler := NewSEOHandler(nil)

	req := httptest.NewRequest("GET", "/og/blog/dengue-precautions", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone) Safari/605.1")
	req = mux.SetURLVars(req, map[string]string{"slug": "dengue-precautions"})
	rec := httptest.NewRecorder()
	handler.BlogShell(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/blog/dengue-precautions")
}

// newShellTestDB creates the lookup tables the crawler shells query. Raw DDL
// because the postgres array columns on the full models do not migrate on
// sqlite.
func newShellTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE doctors (
		id integer primary key autoincrement,
		created_at datetime, updated_at datetime, deleted_at datetime,
		slug text)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE blog_posts (
		id integer primary key autoincrement,
		created_at datetime, updated_at datetime, deleted_at datetime,
		slug text, published boolean)`).Error)
	return db
}

func TestDoctorShellUnknownSlugRedirectsCrawlerToClientRoute(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://rangpurcare.com")
	handler := NewSEOHandler(newShellTestDB(t))

	req := httptest.NewRequest("GET", "/og/doctor/dr-ghost", nil)
	req.Header.Set("User-Agent", "facebookexternalhit/1.1")
	req = mux.SetURLVars(req, map[string]string{"slug": "dr-ghost"})
	rec := httptest.NewRecorder()
	handler.DoctorShell(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://rangpurcare.com/doctors/dr-ghost", rec.Header().Get("Location"))
}

func TestBlogShellUnknownSlugRedirectsCrawlerToClientRoute(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://rangpurcare.com")
	handler := NewSEOHandler(newShellTestDB(t))

	req := httptest.NewRequest("GET", "/og/blog/ghost-post", nil)
	req.Header.Set("User-Agent", "Twitterbot/1.0")
	req = mux.SetURLVars(req, map[string]string{"slug": "ghost-post"})
	rec := httptest.NewRecorder()
	handler.BlogShell(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://rangpurcare.com/blog/ghost-post", rec.Header().Get("Location"))
}

func TestOGImageRequiresName(t *testing.T) {
	handler := NewSEOHandler(nil)

	req := httptest.NewRequest("GET", "/og/image", nil)
	rec := httptest.NewRecorder()
	handler.OGImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
