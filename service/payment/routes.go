package payment

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

// pendingTTL bounds how long a hosted checkout stays resumable. bKash
// invalidates the payment on its side well before this.
const pendingTTL = 30 * time.Minute

type PaymentHandler struct {
	db    *gorm.DB
	redis *redis.Client

	// One client per settings version, so the token grant cache survives
	// across requests and a credential save invalidates it.
	clientMu      sync.Mutex
	client        *BkashClient
	clientVersion int
}

func NewPaymentHandler(db *gorm.DB, rdb *redis.Client) *PaymentHandler {
	return &PaymentHandler{db: db, redis: rdb}
}

func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/payments/create", h.CreatePayment).Methods("POST")
	router.HandleFunc("/payments/callback", h.HandleCallback).Methods("GET", "POST")
}

// pendingPayment is the redis snapshot keyed by the gateway payment ID.
type pendingPayment struct {
	Reference string  `json:"reference"`
	Purpose   string  `json:"purpose"`
	Amount    float64 `json:"amount"`
	Phone     string  `json:"phone"`
}

func pendingKey(paymentID string) string {
	return "payment:pending:" + paymentID
}

// CreatePayment opens a bKash hosted checkout for an appointment booking ref
// (APT-...) or a store order ref (ORD-...). The amount always comes from the
// stored record, never from the request.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	ref := strings.ToUpper(strings.TrimSpace(payload.Reference))
	if ref == "" {
		http.Error(w, "Reference is required", http.StatusBadRequest)
		return
	}

	pending := pendingPayment{Reference: ref}
	switch {
	case strings.HasPrefix(ref, "APT-"):
		var appointment models.Appointment
		if err := h.db.Where("booking_ref = ?", ref).First(&appointment).Error; err != nil {
			http.Error(w, "Appointment not found", http.StatusNotFound)
			return
		}
		if appointment.PaymentStatus == "paid" {
			http.Error(w, "Appointment is already paid", http.StatusConflict)
			return
		}
		if appointment.Status == models.AppointmentStatusCancelled {
			http.Error(w, "Appointment is cancelled", http.StatusConflict)
			return
		}
		pending.Purpose = "appointment"
		pending.Amount = appointment.Amount
		pending.Phone = appointment.PatientPhone

	case strings.HasPrefix(ref, "ORD-"):
		var order models.Order
		if err := h.db.Where("order_ref = ?", ref).First(&order).Error; err != nil {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		if order.PaymentStatus == "paid" {
			http.Error(w, "Order is already paid", http.StatusConflict)
			return
		}
		if order.Status == "cancelled" {
			http.Error(w, "Order is cancelled", http.StatusConflict)
			return
		}
		pending.Purpose = "order"
		pending.Amount = order.Total
		pending.Phone = order.CustomerPhone

	default:
		http.Error(w, "Unknown reference format", http.StatusBadRequest)
		return
	}

	if pending.Amount <= 0 {
		http.Error(w, "Nothing to pay for this reference", http.StatusConflict)
		return
	}

	client, err := h.gatewayClient()
	if err != nil {
		log.Printf("Payment gateway unavailable: %v", err)
		http.Error(w, "Payment gateway is not configured", http.StatusServiceUnavailable)
		return
	}

	callbackURL := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/") + "/api/v1/payments/callback"
	result, err := client.CreatePayment(pending.Amount, pending.Phone, ref, callbackURL)
	if err != nil {
		log.Printf("Failed to create payment for %s: %v", ref, err)
		http.Error(w, "Failed to initialize payment", http.StatusBadGateway)
		return
	}

	snapshot, _ := json.Marshal(pending)
	if err := h.redis.Set(r.Context(), pendingKey(result.PaymentID), snapshot, pendingTTL).Err(); err != nil {
		log.Printf("Failed to snapshot pending payment %s: %v", result.PaymentID, err)
		http.Error(w, "Failed to initialize payment", http.StatusInternalServerError)
		return
	}

	h.stampPaymentID(pending, result.PaymentID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"payment_id": result.PaymentID,
		"bkash_url":  result.BkashURL,
	})
}

// HandleCallback is where bKash sends the browser back after the hosted page.
// Success executes the payment and marks the record paid; failure and cancel
// just drop the snapshot without touching the record.
func (h *PaymentHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	paymentID := r.URL.Query().Get("paymentID")
	status := r.URL.Query().Get("status")
	if paymentID == "" {
		http.Error(w, "Missing payment ID", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	raw, err := h.redis.Get(ctx, pendingKey(paymentID)).Result()
	if err != nil {
		http.Error(w, "Payment session expired or unknown", http.StatusNotFound)
		return
	}
	var pending pendingPayment
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		http.Error(w, "Corrupt payment session", http.StatusInternalServerError)
		return
	}

	if status != "success" {
		h.redis.Del(ctx, pendingKey(paymentID))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "failed",
			"reference": pending.Reference,
		})
		return
	}

	client, err := h.gatewayClient()
	if err != nil {
		log.Printf("Payment gateway unavailable during callback: %v", err)
		http.Error(w, "Payment gateway is not configured", http.StatusServiceUnavailable)
		return
	}

	result, err := client.ExecutePayment(paymentID)
	if err != nil {
		log.Printf("Execute failed for payment %s (%s): %v", paymentID, pending.Reference, err)
		h.redis.Del(ctx, pendingKey(paymentID))
		http.Error(w, "Payment could not be completed", http.StatusBadGateway)
		return
	}

	if err := h.completePayment(pending, paymentID, result.TrxID); err != nil {
		log.Printf("Failed to record payment %s for %s: %v", paymentID, pending.Reference, err)
		http.Error(w, "Failed to record payment", http.StatusInternalServerError)
		return
	}
	h.redis.Del(ctx, pendingKey(paymentID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "paid",
		"reference": pending.Reference,
		"trx_id":    result.TrxID,
	})
}

// completePayment marks the underlying record paid and writes the transaction
// row in one transaction. A duplicate callback hits the unique reference
// constraint and leaves the first result intact.
func (h *PaymentHandler) completePayment(pending pendingPayment, paymentID, trxID string) error {
	tx := h.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	switch pending.Purpose {
	case "appointment":
		res := tx.Model(&models.Appointment{}).
			Where("booking_ref = ? AND payment_status <> ?", pending.Reference, "paid").
			Updates(map[string]interface{}{
				"payment_status": "paid",
				"payment_id":     paymentID,
				"status":         models.AppointmentStatusConfirmed,
			})
		if res.Error != nil {
			tx.Rollback()
			return res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil
		}
	case "order":
		res := tx.Model(&models.Order{}).
			Where("order_ref = ? AND payment_status <> ?", pending.Reference, "paid").
			Updates(map[string]interface{}{
				"payment_status": "paid",
				"payment_id":     paymentID,
			})
		if res.Error != nil {
			tx.Rollback()
			return res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil
		}
	default:
		tx.Rollback()
		return fmt.Errorf("unknown payment purpose: %s", pending.Purpose)
	}

	transaction := models.Transaction{
		Reference: pending.Reference,
		Amount:    pending.Amount,
		Method:    "bKash",
		Purpose:   pending.Purpose,
		TrxID:     trxID,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// stampPaymentID records the open checkout on the record so support can trace
// abandoned payments. Failure here is not fatal.
func (h *PaymentHandler) stampPaymentID(pending pendingPayment, paymentID string) {
	var err error
	switch pending.Purpose {
	case "appointment":
		err = h.db.Model(&models.Appointment{}).
			Where("booking_ref = ?", pending.Reference).
			UpdateColumn("payment_id", paymentID).Error
	case "order":
		err = h.db.Model(&models.Order{}).
			Where("order_ref = ?", pending.Reference).
			UpdateColumn("payment_id", paymentID).Error
	}
	if err != nil {
		log.Printf("Failed to stamp payment ID on %s: %v", pending.Reference, err)
	}
}

func (h *PaymentHandler) gatewayClient() (*BkashClient, error) {
	settings, err := h.loadSettings()
	if err != nil {
		return nil, err
	}
	return h.clientFor(*settings)
}

// clientFor reuses the held client while the settings version is unchanged.
func (h *PaymentHandler) clientFor(settings models.BkashSettings) (*BkashClient, error) {
	h.clientMu.Lock()
	defer h.clientMu.Unlock()

	if h.client != nil && h.clientVersion == settings.Version {
		return h.client, nil
	}

	creds, err := CredentialsFor(settings)
	if err != nil {
		return nil, err
	}
	h.client = NewBkashClient(creds)
	h.clientVersion = settings.Version
	return h.client, nil
}

func (h *PaymentHandler) loadSettings() (*models.BkashSettings, error) {
	var settings models.BkashSettings
	if err := h.db.Order("id DESC").First(&settings).Error; err != nil {
		return nil, fmt.Errorf("no gateway settings saved: %w", err)
	}
	return &settings, nil
}
