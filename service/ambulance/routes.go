package ambulance

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	notification "github.com/rangpurcare/rangpurcare-server/service/notifications"
	"gorm.io/gorm"
)

type AmbulanceHandler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewAmbulanceHandler(db *gorm.DB, notifier *notification.Notifier) *AmbulanceHandler {
	return &AmbulanceHandler{db: db, notifier: notifier}
}

func (h *AmbulanceHandler) RegisterRoutes(router *mux.Router) {
	// drivers
	router.HandleFunc("/ambulance/drivers", h.GetDrivers).Methods("GET")
	router.HandleFunc("/ambulance/drivers/{id}", h.GetDriver).Methods("GET")
	router.HandleFunc("/ambulance/drivers", utils.AuthMiddleware(h.CreateDriver)).Methods("POST")
	router.HandleFunc("/ambulance/drivers/{id}", utils.AuthMiddleware(h.UpdateDriver)).Methods("PUT")
	router.HandleFunc("/ambulance/drivers/{id}", utils.AuthMiddleware(h.DeleteDriver)).Methods("DELETE")

	// requests
	router.HandleFunc("/ambulance/requests", h.CreateRequest).Methods("POST")
	router.HandleFunc("/ambulance/requests", utils.AuthMiddleware(h.GetRequests)).Methods("GET")
	router.HandleFunc("/ambulance/requests/{id}/status", utils.AuthMiddleware(h.UpdateRequestStatus)).Methods("PATCH")
	router.HandleFunc("/ambulance/requests/{id}/assign", utils.AuthMiddleware(h.AssignDriver)).Methods("PATCH")

	// access codes
	router.HandleFunc("/ambulance/access-codes", utils.AuthMiddleware(h.IssueAccessCode)).Methods("POST")
	router.HandleFunc("/ambulance/access-codes", utils.AuthMiddleware(h.GetAccessCodes)).Methods("GET")
	router.HandleFunc("/ambulance/access-codes/{id}/revoke", utils.AuthMiddleware(h.RevokeAccessCode)).Methods("PATCH")
	router.HandleFunc("/ambulance/driver-login", h.DriverLogin).Methods("POST")
}

func (h *AmbulanceHandler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.AmbulanceDriver{})

	if district := r.URL.Query().Get("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if featured := r.URL.Query().Get("featured"); featured != "" {
		isFeatured, parseErr := strconv.ParseBool(featured)
		if parseErr != nil {
			http.Error(w, "Invalid value for 'featured'", http.StatusBadRequest)
			return
		}
		query = query.Where("featured = ?", isFeatured)
	}
	if active := r.URL.Query().Get("active"); active != "" {
		isActive, parseErr := strconv.ParseBool(active)
		if parseErr != nil {
			http.Error(w, "Invalid value for 'active'", http.StatusBadRequest)
			return
		}
		query = query.Where("active = ?", isActive)
	}

	var total int64
	query.Count(&total)

	var drivers []models.AmbulanceDriver
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("featured DESC, name ASC").Find(&drivers).Error; err != nil {
		http.Error(w, "Error retrieving drivers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"drivers":     drivers,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *AmbulanceHandler) GetDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	var driver models.AmbulanceDriver
	if err := h.db.First(&driver, driverID).Error; err != nil {
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(driver)
}

func (h *AmbulanceHandler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var driver models.AmbulanceDriver
	if err := json.NewDecoder(r.Body).Decode(&driver); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if driver.Name == "" || driver.Phone == "" {
		http.Error(w, "Name and phone are required", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&driver).Error; err != nil {
		http.Error(w, "Error creating driver", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(driver)
}

func (h *AmbulanceHandler) UpdateDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	var updateData models.AmbulanceDriver
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var driver models.AmbulanceDriver
	if err := h.db.First(&driver, driverID).Error; err != nil {
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}

	driver.Name = updateData.Name
	driver.Phone = updateData.Phone
	driver.VehicleType = updateData.VehicleType
	driver.VehicleNumber = updateData.VehicleNumber
	driver.District = updateData.District
	driver.Area = updateData.Area
	driver.HasOxygen = updateData.HasOxygen
	driver.HasAC = updateData.HasAC
	driver.HasStretcher = updateData.HasStretcher
	driver.Active = updateData.Active
	driver.Available = updateData.Available
	driver.Featured = updateData.Featured

	// Save refreshes updated_at alongside the edited fields
	if err := h.db.Save(&driver).Error; err != nil {
		http.Error(w, "Error updating driver", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(driver)
}

func (h *AmbulanceHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.AmbulanceDriver{}, driverID)
	if result.Error != nil {
		http.Error(w, "Error deleting driver", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Driver deleted successfully",
	})
}

func (h *AmbulanceHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var request models.AmbulanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if request.RequesterName == "" || request.RequesterPhone == "" ||
		request.PickupLocation == "" || request.Destination == "" {
		http.Error(w, "Name, phone, pickup and destination are required", http.StatusBadRequest)
		return
	}

	request.Status = "pending"
	request.DriverID = nil

	if err := h.db.Create(&request).Error; err != nil {
		http.Error(w, "Error creating request", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(request)
}

func (h *AmbulanceHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 50

	query := h.db.Model(&models.AmbulanceRequest{}).Preload("Driver")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if urgent := r.URL.Query().Get("urgent"); urgent != "" {
		isUrgent, parseErr := strconv.ParseBool(urgent)
		if parseErr != nil {
			http.Error(w, "Invalid value for 'urgent'", http.StatusBadRequest)
			return
		}
		query = query.Where("urgent = ?", isUrgent)
	}

	var total int64
	query.Count(&total)

	var requests []models.AmbulanceRequest
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("urgent DESC, created_at DESC").Find(&requests).Error; err != nil {
		http.Error(w, "Error retrieving requests", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"requests":    requests,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *AmbulanceHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var statusUpdate struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !validRequestStatus(statusUpdate.Status) {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	result := h.db.Model(&models.AmbulanceRequest{}).Where("id = ?", requestID).
		Update("status", statusUpdate.Status)
	if result.Error != nil {
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Status updated successfully",
	})
}

func validRequestStatus(status string) bool {
	switch status {
	case "pending", "assigned", "completed", "cancelled":
		return true
	}
	return false
}

// AssignDriver attaches a driver to a pending request and pushes the trip
// details to the driver's app.
func (h *AmbulanceHandler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	var assignRequest struct {
		DriverID uint `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&assignRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var request models.AmbulanceRequest
	if err := tx.First(&request, requestID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Request not found", http.StatusNotFound)
		return
	}

	var driver models.AmbulanceDriver
	if err := tx.First(&driver, assignRequest.DriverID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Driver not found", http.StatusNotFound)
		return
	}

	if !driver.Active || !driver.Available {
		tx.Rollback()
		http.Error(w, "Driver is not available", http.StatusConflict)
		return
	}

	request.DriverID = &driver.ID
	request.Status = "assigned"
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error assigning driver", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing assignment", http.StatusInternalServerError)
		return
	}

	go func() {
		err := h.notifier.NotifyDriver(driver.ID, "New ambulance trip",
			request.PickupLocation+" → "+request.Destination,
			map[string]string{
				"request_id": strconv.FormatUint(uint64(request.ID), 10),
				"urgent":     strconv.FormatBool(request.Urgent),
			})
		if err != nil {
			log.Printf("Error notifying driver %d: %v", driver.ID, err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(request)
}

func (h *AmbulanceHandler) IssueAccessCode(w http.ResponseWriter, r *http.Request) {
	var issueRequest struct {
		DriverID *uint `json:"driver_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&issueRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	code := models.DriverAccessCode{
		Code:     GenerateAccessCode(),
		DriverID: issueRequest.DriverID,
		Active:   true,
	}

	if err := h.db.Create(&code).Error; err != nil {
		http.Error(w, "Error issuing access code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(code)
}

func (h *AmbulanceHandler) GetAccessCodes(w http.ResponseWriter, r *http.Request) {
	var codes []models.DriverAccessCode
	if err := h.db.Preload("Driver").Order("created_at DESC").Find(&codes).Error; err != nil {
		http.Error(w, "Error retrieving access codes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(codes)
}

func (h *AmbulanceHandler) RevokeAccessCode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	codeID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid code ID", http.StatusBadRequest)
		return
	}

	result := h.db.Model(&models.DriverAccessCode{}).Where("id = ?", codeID).
		Update("active", false)
	if result.Error != nil {
		http.Error(w, "Error revoking access code", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Access code not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Access code revoked",
	})
}

// DriverLogin validates an access code from the driver app and returns the
// attached driver profile so the app can register for push.
func (h *AmbulanceHandler) DriverLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var code models.DriverAccessCode
	if err := h.db.Preload("Driver").
		Where("code = ? AND active = ?", loginRequest.Code, true).First(&code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Invalid or revoked access code", http.StatusUnauthorized)
		} else {
			http.Error(w, "Error validating access code", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid":  true,
		"driver": code.Driver,
	})
}

const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateAccessCode returns an 8-character code from an alphabet with the
// lookalike characters removed.
func GenerateAccessCode() string {
	b := make([]byte, 8)
	rand.Read(b)
	for i := range b {
		b[i] = accessCodeAlphabet[int(b[i])%len(accessCodeAlphabet)]
	}
	return string(b)
}
