package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	"gorm.io/gorm"
)

// Notifier pushes to ambulance driver devices via Expo and records history.
type Notifier struct {
	db         *gorm.DB
	expoClient *expo.PushClient
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:         db,
		expoClient: expo.NewPushClient(nil),
	}
}

// NotifyDriver sends a push to every registered device of one driver. A
// driver with no devices is not an error; history still records the attempt.
func (n *Notifier) NotifyDriver(driverID uint, title, body string, data map[string]string) error {
	var devices []models.DriverDevice
	if err := n.db.Where("driver_id = ?", driverID).Find(&devices).Error; err != nil {
		return err
	}

	status := "sent"
	var lastErr error
	for _, device := range devices {
		token, err := expo.NewExponentPushToken(device.Token)
		if err != nil {
			log.Printf("Skipping invalid push token for driver %d: %v", driverID, err)
			continue
		}

		resp, err := n.expoClient.Publish(&expo.PushMessage{
			To:       []expo.ExponentPushToken{token},
			Title:    title,
			Body:     body,
			Data:     data,
			Sound:    "default",
			Priority: expo.DefaultPriority,
		})
		if err != nil {
			status = "failed"
			lastErr = err
			continue
		}
		if err := resp.ValidateResponse(); err != nil {
			status = "failed"
			lastErr = err
		}
	}

	payload, _ := json.Marshal(data)
	history := models.NotificationHistory{
		DriverID: driverID,
		Title:    title,
		Body:     body,
		Data:     string(payload),
		Status:   status,
		SentAt:   time.Now(),
	}
	if err := n.db.Create(&history).Error; err != nil {
		log.Printf("Error recording notification history: %v", err)
	}

	return lastErr
}

type NotificationHandler struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewNotificationHandler(db *gorm.DB, notifier *Notifier) *NotificationHandler {
	return &NotificationHandler{db: db, notifier: notifier}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/drivers/devices", h.RegisterDevice).Methods("POST")
	router.HandleFunc("/drivers/{driverId}/devices", utils.AuthMiddleware(h.GetDriverDevices)).Methods("GET")
	router.HandleFunc("/drivers/{driverId}/notifications", utils.AuthMiddleware(h.SendDriverNotification)).Methods("POST")
	router.HandleFunc("/drivers/{driverId}/history", utils.AuthMiddleware(h.GetDriverHistory)).Methods("GET")
	router.HandleFunc("/drivers/devices/{id}", h.DeleteDevice).Methods("DELETE")
}

// RegisterDevice stores an Expo push token for the driver app.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var device models.DriverDevice
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if device.DriverID == 0 || device.Token == "" {
		http.Error(w, "Driver ID and token are required", http.StatusBadRequest)
		return
	}

	if _, err := expo.NewExponentPushToken(device.Token); err != nil {
		http.Error(w, "Invalid Expo push token format", http.StatusBadRequest)
		return
	}

	var existingDevice models.DriverDevice
	result := h.db.Where("token = ? AND driver_id = ?", device.Token, device.DriverID).First(&existingDevice)

	if result.Error == nil {
		existingDevice.DeviceType = device.DeviceType
		existingDevice.DeviceName = device.DeviceName
		if err := h.db.Save(&existingDevice).Error; err != nil {
			http.Error(w, "Error updating device", http.StatusInternalServerError)
			return
		}
		device = existingDevice
	} else {
		if err := h.db.Create(&device).Error; err != nil {
			http.Error(w, "Error creating device", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Device registered successfully",
		"device":  device,
	})
}

func (h *NotificationHandler) GetDriverDevices(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["driverId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	var devices []models.DriverDevice
	if err := h.db.Where("driver_id = ?", driverID).Find(&devices).Error; err != nil {
		http.Error(w, "Error retrieving devices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(devices)
}

func (h *NotificationHandler) SendDriverNotification(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["driverId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	var request struct {
		Title string            `json:"title"`
		Body  string            `json:"body"`
		Data  map[string]string `json:"data,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if request.Title == "" || request.Body == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	if err := h.notifier.NotifyDriver(uint(driverID), request.Title, request.Body, request.Data); err != nil {
		http.Error(w, fmt.Sprintf("Error sending notification: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Notification sent",
	})
}

func (h *NotificationHandler) GetDriverHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	driverID, err := strconv.ParseUint(vars["driverId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid driver ID", http.StatusBadRequest)
		return
	}

	var history []models.NotificationHistory
	if err := h.db.Where("driver_id = ?", driverID).
		Order("sent_at DESC").Limit(100).Find(&history).Error; err != nil {
		http.Error(w, "Error retrieving history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

func (h *NotificationHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	deviceID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid device ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.DriverDevice{}, deviceID)
	if result.Error != nil {
		http.Error(w, "Error deleting device", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Device deleted successfully",
	})
}
