package settings

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

func (h *SettingsHandler) RegisterRoutes(router *mux.Router) {
	// Contact info and serial blocks feed public pages.
	router.HandleFunc("/settings/contact", h.GetContactSettings).Methods("GET")
	router.HandleFunc("/settings/contact", utils.AuthMiddleware(h.UpdateContactSettings)).Methods("PUT")
	router.HandleFunc("/settings/serial-types", h.GetSerialTypes).Methods("GET")
	router.HandleFunc("/settings/serial-types", utils.AuthMiddleware(h.CreateSerialType)).Methods("POST")
	router.HandleFunc("/settings/serial-types/{id}", utils.AuthMiddleware(h.UpdateSerialType)).Methods("PUT")
	router.HandleFunc("/settings/serial-types/{id}", utils.AuthMiddleware(h.DeleteSerialType)).Methods("DELETE")

	// Gateway credentials never leave the admin surface.
	router.HandleFunc("/settings/bkash", utils.AuthMiddleware(h.GetBkashSettings)).Methods("GET")
	router.HandleFunc("/settings/bkash", utils.AuthMiddleware(h.SaveBkashSettings)).Methods("PUT")
	router.HandleFunc("/settings/bkash/history", utils.AuthMiddleware(h.GetBkashHistory)).Methods("GET")
}

func (h *SettingsHandler) GetContactSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.ContactSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err != nil {
		settings = models.ContactSettings{OutsideCityFee: 100}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *SettingsHandler) UpdateContactSettings(w http.ResponseWriter, r *http.Request) {
	var payload models.ContactSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.OutsideCityFee < 0 {
		http.Error(w, "Delivery fee cannot be negative", http.StatusBadRequest)
		return
	}

	var existing models.ContactSettings
	if err := h.db.Order("id DESC").First(&existing).Error; err == nil {
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
	}

	if err := h.db.Save(&payload).Error; err != nil {
		log.Printf("Failed to save contact settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *SettingsHandler) GetSerialTypes(w http.ResponseWriter, r *http.Request) {
	var types []models.SerialTypeSetting
	query := h.db.Order("start_serial ASC")
	if r.URL.Query().Get("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&types).Error; err != nil {
		http.Error(w, "Failed to fetch serial types", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(types)
}

func validateSerialType(payload models.SerialTypeSetting) string {
	if payload.Name == "" {
		return "Name is required"
	}
	if payload.StartSerial < 1 {
		return "Start serial must be at least 1"
	}
	if payload.MaxSerials < 1 {
		return "Max serials must be at least 1"
	}
	return ""
}

func (h *SettingsHandler) CreateSerialType(w http.ResponseWriter, r *http.Request) {
	var payload models.SerialTypeSetting
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateSerialType(payload); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&payload).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "A serial type with this name already exists", http.StatusConflict)
			return
		}
		log.Printf("Failed to create serial type: %v", err)
		http.Error(w, "Failed to create serial type", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}

func (h *SettingsHandler) UpdateSerialType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid serial type ID", http.StatusBadRequest)
		return
	}

	var payload models.SerialTypeSetting
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateSerialType(payload); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	var existing models.SerialTypeSetting
	if err := h.db.First(&existing, id).Error; err != nil {
		http.Error(w, "Serial type not found", http.StatusNotFound)
		return
	}

	payload.ID = existing.ID
	payload.CreatedAt = existing.CreatedAt
	if err := h.db.Save(&payload).Error; err != nil {
		log.Printf("Failed to update serial type %d: %v", id, err)
		http.Error(w, "Failed to update serial type", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *SettingsHandler) DeleteSerialType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid serial type ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.SerialTypeSetting{}, id)
	if result.Error != nil {
		http.Error(w, "Failed to delete serial type", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Serial type not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SettingsHandler) GetBkashSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.BkashSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err != nil {
		settings = models.BkashSettings{Mode: "sandbox", Version: 0}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// SaveBkashSettings bumps the version and appends a history row in the same
// transaction, so every credential change is traceable to a version and an
// admin.
func (h *SettingsHandler) SaveBkashSettings(w http.ResponseWriter, r *http.Request) {
	var payload models.BkashSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Mode != "sandbox" && payload.Mode != "production" {
		http.Error(w, "Mode must be sandbox or production", http.StatusBadRequest)
		return
	}

	adminID, _ := utils.GetUserIDFromContext(r)

	tx := h.db.Begin()
	if tx.Error != nil {
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var existing models.BkashSettings
	if err := tx.Order("id DESC").First(&existing).Error; err == nil {
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
		payload.Version = existing.Version + 1
	} else {
		payload.Version = 1
	}

	if err := tx.Save(&payload).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to save gateway settings: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	snapshot, _ := json.Marshal(payload)
	history := models.BkashSettingsHistory{
		SettingsID: payload.ID,
		Version:    payload.Version,
		Mode:       payload.Mode,
		ChangedBy:  adminID,
		Snapshot:   string(snapshot),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		log.Printf("Failed to record settings history: %v", err)
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *SettingsHandler) GetBkashHistory(w http.ResponseWriter, r *http.Request) {
	var history []models.BkashSettingsHistory
	if err := h.db.Order("version DESC").Limit(50).Find(&history).Error; err != nil {
		http.Error(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
