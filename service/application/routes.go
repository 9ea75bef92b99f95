package application

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
)

type ApplicationHandler struct {
	db *gorm.DB
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

func (h *ApplicationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/applications/doctor", h.SubmitDoctorApplication).Methods("POST")
	router.HandleFunc("/applications/ambulance", h.SubmitAmbulanceApplication).Methods("POST")
	router.HandleFunc("/applications/data-edit", h.SubmitDataEditRequest).Methods("POST")

	router.HandleFunc("/applications/doctor", utils.AuthMiddleware(h.GetDoctorApplications)).Methods("GET")
	router.HandleFunc("/applications/ambulance", utils.AuthMiddleware(h.GetAmbulanceApplications)).Methods("GET")
	router.HandleFunc("/applications/data-edit", utils.AuthMiddleware(h.GetDataEditRequests)).Methods("GET")
	router.HandleFunc("/applications/{kind}/{id}/status", utils.AuthMiddleware(h.UpdateStatus)).Methods("PATCH")
}

func validApplicationStatus(status string) bool {
	switch status {
	case "pending", "approved", "rejected":
		return true
	}
	return false
}

func (h *ApplicationHandler) SubmitDoctorApplication(w http.ResponseWriter, r *http.Request) {
	var payload models.DoctorApplication
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Phone == "" {
		http.Error(w, "Name and phone are required", http.StatusBadRequest)
		return
	}
	payload.Status = "pending"

	if err := h.db.Create(&payload).Error; err != nil {
		log.Printf("Failed to save doctor application: %v", err)
		http.Error(w, "Failed to submit application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}

func (h *ApplicationHandler) SubmitAmbulanceApplication(w http.ResponseWriter, r *http.Request) {
	var payload models.AmbulanceApplication
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Phone == "" {
		http.Error(w, "Name and phone are required", http.StatusBadRequest)
		return
	}
	payload.Status = "pending"

	if err := h.db.Create(&payload).Error; err != nil {
		log.Printf("Failed to save ambulance application: %v", err)
		http.Error(w, "Failed to submit application", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}

func (h *ApplicationHandler) SubmitDataEditRequest(w http.ResponseWriter, r *http.Request) {
	var payload models.DataEditRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.EntityType == "" || payload.Description == "" {
		http.Error(w, "Entity type and description are required", http.StatusBadRequest)
		return
	}
	payload.Status = "pending"

	if err := h.db.Create(&payload).Error; err != nil {
		log.Printf("Failed to save data edit request: %v", err)
		http.Error(w, "Failed to submit request", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}

func (h *ApplicationHandler) GetDoctorApplications(w http.ResponseWriter, r *http.Request) {
	var applications []models.DoctorApplication
	query := h.db.Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&applications).Error; err != nil {
		http.Error(w, "Failed to fetch applications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(applications)
}

func (h *ApplicationHandler) GetAmbulanceApplications(w http.ResponseWriter, r *http.Request) {
	var applications []models.AmbulanceApplication
	query := h.db.Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&applications).Error; err != nil {
		http.Error(w, "Failed to fetch applications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(applications)
}

func (h *ApplicationHandler) GetDataEditRequests(w http.ResponseWriter, r *http.Request) {
	var requests []models.DataEditRequest
	query := h.db.Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&requests).Error; err != nil {
		http.Error(w, "Failed to fetch requests", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// UpdateStatus moves any of the three application kinds between pending,
// approved and rejected.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid application ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validApplicationStatus(payload.Status) {
		http.Error(w, "Status must be pending, approved or rejected", http.StatusBadRequest)
		return
	}

	var model interface{}
	switch vars["kind"] {
	case "doctor":
		model = &models.DoctorApplication{}
	case "ambulance":
		model = &models.AmbulanceApplication{}
	case "data-edit":
		model = &models.DataEditRequest{}
	default:
		http.Error(w, "Unknown application kind", http.StatusBadRequest)
		return
	}

	result := h.db.Model(model).Where("id = ?", id).Update("status", payload.Status)
	if result.Error != nil {
		log.Printf("Failed to update application status: %v", result.Error)
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Application not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": payload.Status})
}
