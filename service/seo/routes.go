package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

// crawlerSignatures are the UA substrings of the link-preview bots that need
// a rendered shell instead of the client app.
var crawlerSignatures = []string{
	"facebookexternalhit",
	"facebookcatalog",
	"twitterbot",
	"whatsapp",
	"telegrambot",
	"linkedinbot",
	"slackbot",
	"discordbot",
	"googlebot",
	"bingbot",
	"pinterest",
}

// IsCrawler reports whether the user agent belongs to a known preview bot.
func IsCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, sig := range crawlerSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}

type SEOHandler struct {
	db      *gorm.DB
	siteURL string
}

func NewSEOHandler(db *gorm.DB) *SEOHandler {
	return &SEOHandler{
		db:      db,
		siteURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
	}
}

func (h *SEOHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/seo/meta", h.GetRouteMeta).Methods("GET")
	router.HandleFunc("/seo/routes", h.GetPrerenderRoutes).Methods("GET")
	router.HandleFunc("/og/doctor/{slug}", h.DoctorShell).Methods("GET")
	router.HandleFunc("/og/blog/{slug}", h.BlogShell).Methods("GET")
	router.HandleFunc("/og/image", h.OGImage).Methods("GET")
}

func (h *SEOHandler) GetRouteMeta(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	meta, known := MetaForPath(path)
	w.Header().Set("Content-Type", "application/json")
	if !known {
		w.WriteHeader(http.StatusNotFound)
	}
	json.NewEncoder(w).Encode(meta)
}

func (h *SEOHandler) GetPrerenderRoutes(w http.ResponseWriter, r *http.Request) {
	routes := PrerenderRoutes()
	sort.Strings(routes)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"routes": routes,
	})
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="bn">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
<link rel="canonical" href="{{.Canonical}}">
<meta property="og:type" content="{{.OGType}}">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:url" content="{{.Canonical}}">
{{if .ImageURL}}<meta property="og:image" content="{{.ImageURL}}">
{{end}}<meta property="og:site_name" content="Rangpur Care">
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="{{.Title}}">
<meta name="twitter:description" content="{{.Description}}">
{{if .ImageURL}}<meta name="twitter:image" content="{{.ImageURL}}">
{{end}}<script type="application/ld+json">{{.JSONLD}}</script>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<a href="{{.Canonical}}">{{.Canonical}}</a>
</body>
</html>
`))

type shellData struct {
	Title       string
	Description string
	Canonical   string
	OGType      string
	ImageURL    string
	JSONLD      template.JS
}

// DoctorShell serves a crawler-only preview page for a doctor profile.
// Humans and unknown slugs get redirected to the client route.
func (h *SEOHandler) DoctorShell(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	clientRoute := h.siteURL + "/doctors/" + slug

	if !IsCrawler(r.UserAgent()) {
		http.Redirect(w, r, clientRoute, http.StatusFound)
		return
	}

	var doctor models.Doctor
	if err := h.db.Where("slug = ?", slug).First(&doctor).Error; err != nil {
		// Unknown slugs still point at the canonical client route so the
		// crawler records the same URL a human would land on.
		http.Redirect(w, r, clientRoute, http.StatusFound)
		return
	}

	description := fmt.Sprintf("%s, %s in %s.", doctor.Name, doctor.Category, doctor.District)
	if doctor.Degrees != "" {
		description = fmt.Sprintf("%s %s. %s", doctor.Name, doctor.Degrees, description)
	}
	if doctor.VisitingFee > 0 {
		description += fmt.Sprintf(" Visiting fee %.0f BDT.", doctor.VisitingFee)
	}

	ld, _ := json.Marshal(map[string]interface{}{
		"@context":         "https://schema.org",
		"@type":            "Physician",
		"name":             doctor.Name,
		"medicalSpecialty": doctor.Category,
		"address": map[string]interface{}{
			"@type":           "PostalAddress",
			"addressLocality": doctor.District,
			"addressCountry":  "BD",
			"streetAddress":   doctor.ChamberAddress,
		},
		"url": clientRoute,
	})

	ogParams := url.Values{
		"name":        {doctor.Name},
		"category":    {doctor.Category},
		"credentials": {doctor.Degrees},
		"rating":      {fmt.Sprintf("%.1f", doctor.Rating)},
	}
	if doctor.ImagePath != "" {
		ogParams.Set("image", filepath.Base(doctor.ImagePath))
	}
	imageURL := h.siteURL + "/api/v1/og/image?" + ogParams.Encode()

	h.renderShell(w, shellData{
		Title:       doctor.Name + " - " + doctor.Category + " | Rangpur Care",
		Description: description,
		Canonical:   clientRoute,
		OGType:      "profile",
		ImageURL:    imageURL,
		JSONLD:      template.JS(ld),
	})
}

// BlogShell is the crawler-only preview page for a published blog post.
func (h *SEOHandler) BlogShell(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	clientRoute := h.siteURL + "/blog/" + slug

	if !IsCrawler(r.UserAgent()) {
		http.Redirect(w, r, clientRoute, http.StatusFound)
		return
	}

	var post models.BlogPost
	if err := h.db.Where("slug = ? AND published = ?", slug, true).First(&post).Error; err != nil {
		http.Redirect(w, r, clientRoute, http.StatusFound)
		return
	}

	title := post.MetaTitle
	if title == "" {
		title = post.Title
	}
	description := post.MetaDescription
	if description == "" {
		description = post.Excerpt
	}

	ld, _ := json.Marshal(map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   description,
		"datePublished": post.CreatedAt.Format("2006-01-02"),
		"dateModified":  post.UpdatedAt.Format("2006-01-02"),
		"url":           clientRoute,
		"publisher": map[string]interface{}{
			"@type": "Organization",
			"name":  "Rangpur Care",
		},
	})

	imageURL := ""
	if post.CoverImagePath != "" {
		imageURL = h.siteURL + "/" + strings.TrimLeft(post.CoverImagePath, "/")
	}

	h.renderShell(w, shellData{
		Title:       title + " | Rangpur Care",
		Description: description,
		Canonical:   clientRoute,
		OGType:      "article",
		ImageURL:    imageURL,
		JSONLD:      template.JS(ld),
	})
}

func (h *SEOHandler) renderShell(w http.ResponseWriter, data shellData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := shellTemplate.Execute(w, data); err != nil {
		log.Printf("Failed to render crawler shell: %v", err)
	}
}

const (
	ogWidth  = 1200
	ogHeight = 630
)

// OGImage composes the share card PNG for a doctor profile.
func (h *SEOHandler) OGImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	category := q.Get("category")
	credentials := q.Get("credentials")
	rating, _ := strconv.ParseFloat(q.Get("rating"), 64)

	dc := gg.NewContext(ogWidth, ogHeight)

	// Brand background with a darker footer band.
	dc.SetRGB(0.043, 0.341, 0.298)
	dc.Clear()
	dc.SetRGB(0.027, 0.247, 0.216)
	dc.DrawRectangle(0, ogHeight-110, ogWidth, 110)
	dc.Fill()

	fontDir := os.Getenv("FONT_DIR")
	if fontDir == "" {
		fontDir = "assets/fonts"
	}
	boldFont := fontDir + "/NotoSans-Bold.ttf"
	regularFont := fontDir + "/NotoSans-Regular.ttf"

	dc.SetRGB(1, 1, 1)
	if err := dc.LoadFontFace(boldFont, 64); err != nil {
		log.Printf("OG image font missing: %v", err)
		http.Error(w, "Image fonts unavailable", http.StatusServiceUnavailable)
		return
	}
	dc.DrawStringWrapped(name, 80, 150, 0, 0, ogWidth-160, 1.2, gg.AlignLeft)

	if err := dc.LoadFontFace(regularFont, 36); err == nil {
		dc.SetRGB(0.85, 0.92, 0.9)
		if category != "" {
			dc.DrawString(category, 80, 300)
		}
		if credentials != "" {
			dc.DrawStringWrapped(credentials, 80, 340, 0, 0, ogWidth-160, 1.3, gg.AlignLeft)
		}
		dc.SetRGB(1, 1, 1)
		dc.DrawString("rangpurcare.com", 80, ogHeight-45)
	}

	if rating > 0 {
		drawStars(dc, 80, 470, rating)
	}

	// Portrait, when the referenced upload exists. A missing or unreadable
	// file just leaves the card text-only.
	if image := q.Get("image"); image != "" && !strings.Contains(image, "..") {
		if im, err := gg.LoadImage(filepath.Join("uploads/images", filepath.Base(image))); err == nil {
			const radius = 170.0
			cx, cy := float64(ogWidth-280), float64(ogHeight)/2-40
			dc.Push()
			dc.DrawCircle(cx, cy, radius)
			dc.Clip()
			bounds := im.Bounds()
			scale := (radius * 2) / float64(bounds.Dx())
			dc.Scale(scale, scale)
			dc.DrawImageAnchored(im, int((cx)/scale), int((cy)/scale), 0.5, 0.5)
			dc.Pop()
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := dc.EncodePNG(w); err != nil {
		log.Printf("Failed to encode OG image: %v", err)
	}
}

// drawStars renders a five-star row, filling stars up to the rating.
func drawStars(dc *gg.Context, x, y, rating float64) {
	const size = 22.0
	const gap = 58.0
	for i := 0; i < 5; i++ {
		cx := x + float64(i)*gap
		if rating >= float64(i)+0.5 {
			dc.SetRGB(1, 0.78, 0.23)
		} else {
			dc.SetRGB(0.35, 0.5, 0.46)
		}
		dc.DrawRegularPolygon(5, cx, y, size, -0.5*3.14159)
		dc.Fill()
	}
}
