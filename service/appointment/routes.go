package appointment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

type AppointmentHandler struct {
	db *gorm.DB
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{db: db}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments/book", h.BookAppointment).Methods("POST")
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.GetAllAppointments)).Methods("GET")
	router.HandleFunc("/appointments/ref/{ref}", h.GetAppointmentByRef).Methods("GET")
	router.HandleFunc("/appointments/{id}", utils.AuthMiddleware(h.GetAppointment)).Methods("GET")
	router.HandleFunc("/appointments/{id}/status", utils.AuthMiddleware(h.UpdateStatus)).Methods("PATCH")
	router.HandleFunc("/appointments/{id}/payment", utils.AuthMiddleware(h.UpdatePaymentStatus)).Methods("PATCH")
}

// Allowed status edges. Admin buttons used to be the only guard here; the
// server now rejects anything outside this map.
var allowedTransitions = map[string][]string{
	models.AppointmentStatusPending:   {models.AppointmentStatusConfirmed, models.AppointmentStatusCancelled},
	models.AppointmentStatusConfirmed: {models.AppointmentStatusCompleted, models.AppointmentStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func nextActions(status string) []string {
	next := allowedTransitions[status]
	if next == nil {
		return []string{}
	}
	return next
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var bookingRequest struct {
		DoctorID        uint   `json:"doctor_id"`
		PatientName     string `json:"patient_name"`
		PatientPhone    string `json:"patient_phone"`
		PatientEmail    string `json:"patient_email"`
		PatientAge      int    `json:"patient_age"`
		PatientGender   string `json:"patient_gender"`
		AppointmentDate string `json:"appointment_date"`
		SerialType      string `json:"serial_type"`
	}

	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if bookingRequest.PatientName == "" || bookingRequest.PatientPhone == "" {
		http.Error(w, "Patient name and phone are required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", bookingRequest.AppointmentDate)
	if err != nil {
		http.Error(w, "Invalid date format. Use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var doctor models.Doctor
	if err := tx.First(&doctor, bookingRequest.DoctorID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	if !doctor.Available {
		tx.Rollback()
		http.Error(w, "Doctor is not taking appointments", http.StatusConflict)
		return
	}

	serialType, err := h.resolveSerialType(tx, bookingRequest.SerialType)
	if err != nil {
		tx.Rollback()
		http.Error(w, "Serial type not found", http.StatusBadRequest)
		return
	}

	var taken int64
	if err := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND serial_type = ? AND status != ?",
			bookingRequest.DoctorID, date, serialType.Name, models.AppointmentStatusCancelled).
		Count(&taken).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error checking serials", http.StatusInternalServerError)
		return
	}

	if taken >= int64(serialType.MaxSerials) {
		tx.Rollback()
		http.Error(w, "No serials left for this date", http.StatusConflict)
		return
	}

	appointment := models.Appointment{
		BookingRef:      newBookingRef(),
		DoctorID:        bookingRequest.DoctorID,
		PatientName:     bookingRequest.PatientName,
		PatientPhone:    bookingRequest.PatientPhone,
		PatientEmail:    bookingRequest.PatientEmail,
		PatientAge:      bookingRequest.PatientAge,
		PatientGender:   bookingRequest.PatientGender,
		AppointmentDate: date,
		SerialType:      serialType.Name,
		SerialNumber:    serialType.StartSerial + int(taken),
		Status:          models.AppointmentStatusPending,
		PaymentStatus:   "unpaid",
		Amount:          doctor.SerialFee,
	}

	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating appointment", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing booking", http.StatusInternalServerError)
		return
	}

	if appointment.PatientEmail != "" {
		go func() {
			if err := sendBookingEmail(appointment, doctor); err != nil {
				log.Printf("Error sending booking email for %s: %v", appointment.BookingRef, err)
			}
		}()
	}

	h.db.Preload("Doctor").First(&appointment, appointment.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appointment)
}

func (h *AppointmentHandler) resolveSerialType(tx *gorm.DB, name string) (*models.SerialTypeSetting, error) {
	var setting models.SerialTypeSetting
	query := tx.Where("active = ?", true)
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if err := query.Order("id ASC").First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func newBookingRef() string {
	return fmt.Sprintf("APT-%s", strings.ToUpper(uuid.New().String()[:8]))
}

func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 100

	query := h.db.Model(&models.Appointment{}).Preload("Doctor")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := r.URL.Query().Get("date"); date != "" {
		query = query.Where("appointment_date = ?", date)
	}
	if doctorID := r.URL.Query().Get("doctor_id"); doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		query = query.Where("patient_phone = ?", phone)
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("appointment_date DESC, serial_number ASC").Find(&appointments).Error; err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var appointment models.Appointment
	if err := h.db.Preload("Doctor").First(&appointment, appointmentID).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

// GetAppointmentByRef is the public lookup patients use with their booking
// reference; it hides nothing extra, the ref itself is the secret.
func (h *AppointmentHandler) GetAppointmentByRef(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var appointment models.Appointment
	if err := h.db.Preload("Doctor").
		Where("booking_ref = ?", vars["ref"]).First(&appointment).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appointment)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var statusUpdate struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var appointment models.Appointment
	if err := h.db.First(&appointment, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Appointment not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving appointment", http.StatusInternalServerError)
		}
		return
	}

	if !canTransition(appointment.Status, statusUpdate.Status) {
		http.Error(w, fmt.Sprintf("Cannot move appointment from %s to %s",
			appointment.Status, statusUpdate.Status), http.StatusConflict)
		return
	}

	result := h.db.Model(&models.Appointment{}).Where("id = ?", appointmentID).
		Update("status", statusUpdate.Status)
	if result.Error != nil {
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Status updated successfully",
		"status":       statusUpdate.Status,
		"next_actions": nextActions(statusUpdate.Status),
	})
}

func (h *AppointmentHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var paymentUpdate struct {
		PaymentStatus string `json:"payment_status"`
		PaymentID     string `json:"payment_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&paymentUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.db.Model(&models.Appointment{}).Where("id = ?", appointmentID).
		Updates(map[string]interface{}{
			"payment_status": paymentUpdate.PaymentStatus,
			"payment_id":     paymentUpdate.PaymentID,
		})

	if result.Error != nil {
		http.Error(w, "Error updating payment status", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Payment status updated successfully",
	})
}

func sendBookingEmail(appointment models.Appointment, doctor models.Doctor) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", appointment.PatientEmail)
	m.SetHeader("Subject", fmt.Sprintf("Appointment %s confirmed", appointment.BookingRef))
	m.SetBody("text/plain", fmt.Sprintf(
		"Your serial with %s on %s is %d (%s). Booking reference: %s.",
		doctor.Name,
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.SerialNumber,
		appointment.SerialType,
		appointment.BookingRef,
	))

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
