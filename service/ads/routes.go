package ads

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
)

// seenTTL keeps the once-per-session mark roughly as long as a browsing
// session lasts.
const seenTTL = 12 * time.Hour

type AdHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewAdHandler(db *gorm.DB, rdb *redis.Client) *AdHandler {
	return &AdHandler{db: db, redis: rdb}
}

func (h *AdHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ads/interstitial", h.GetInterstitial).Methods("GET")
	router.HandleFunc("/ads/settings", utils.AuthMiddleware(h.GetSettings)).Methods("GET")
	router.HandleFunc("/ads/settings", utils.AuthMiddleware(h.UpdateSettings)).Methods("PUT")
}

type interstitialResponse struct {
	Show                    bool   `json:"show"`
	DelaySeconds            int    `json:"delay_seconds,omitempty"`
	ShowCloseButton         bool   `json:"show_close_button,omitempty"`
	CloseButtonDelaySeconds int    `json:"close_button_delay_seconds,omitempty"`
	DesktopImageURL         string `json:"desktop_image_url,omitempty"`
	MobileImageURL          string `json:"mobile_image_url,omitempty"`
	LinkURL                 string `json:"link_url,omitempty"`
}

func seenKey(sessionID string) string {
	return "interstitial:seen:" + sessionID
}

// GetInterstitial decides whether the given session should see the ad. Every
// failure path degrades to {show:false} so the ad never breaks a page.
func (h *AdHandler) GetInterstitial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	hide := func() {
		json.NewEncoder(w).Encode(interstitialResponse{Show: false})
	}

	var settings models.AdSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err != nil {
		hide()
		return
	}
	if !settings.Enabled || (settings.DesktopImageURL == "" && settings.MobileImageURL == "") {
		hide()
		return
	}

	sessionID := r.URL.Query().Get("session")
	if settings.ShowOncePerSession && sessionID != "" {
		ctx := r.Context()
		seen, err := h.redis.Exists(ctx, seenKey(sessionID)).Result()
		if err != nil {
			log.Printf("Interstitial dedupe check failed: %v", err)
			hide()
			return
		}
		if seen > 0 {
			hide()
			return
		}
		if err := h.redis.Set(ctx, seenKey(sessionID), 1, seenTTL).Err(); err != nil {
			log.Printf("Failed to mark interstitial session %s: %v", sessionID, err)
		}
	}

	json.NewEncoder(w).Encode(interstitialResponse{
		Show:                    true,
		DelaySeconds:            settings.DelaySeconds,
		ShowCloseButton:         settings.ShowCloseButton,
		CloseButtonDelaySeconds: settings.CloseButtonDelaySeconds,
		DesktopImageURL:         settings.DesktopImageURL,
		MobileImageURL:          settings.MobileImageURL,
		LinkURL:                 settings.LinkURL,
	})
}

func (h *AdHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.AdSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err != nil {
		// No row yet, return the zero config so the admin form can populate.
		settings = models.AdSettings{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *AdHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload models.AdSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.DelaySeconds < 0 || payload.CloseButtonDelaySeconds < 0 {
		http.Error(w, "Delays cannot be negative", http.StatusBadRequest)
		return
	}
	if payload.Enabled && payload.DesktopImageURL == "" && payload.MobileImageURL == "" {
		http.Error(w, "An enabled ad needs at least one image", http.StatusBadRequest)
		return
	}

	var settings models.AdSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err == nil {
		payload.ID = settings.ID
		payload.CreatedAt = settings.CreatedAt
	}

	if err := h.db.Save(&payload).Error; err != nil {
		log.Printf("Failed to save ad settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
