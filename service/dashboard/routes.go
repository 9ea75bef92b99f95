package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	TotalDoctors             int64   `json:"total_doctors"`
	TotalBlogPosts           int64   `json:"total_blog_posts"`
	TotalProducts            int64   `json:"total_products"`
	PendingAppointments      int64   `json:"pending_appointments"`
	PendingAmbulanceRequests int64   `json:"pending_ambulance_requests"`
	PendingReviews           int64   `json:"pending_reviews"`
	PendingOrders            int64   `json:"pending_orders"`
	PendingApplications      int64   `json:"pending_applications"`
	TotalRevenue             float64 `json:"total_revenue"`
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", utils.AuthMiddleware(h.GetDashboardStats)).Methods("GET")
}

// GetDashboardStats gathers the counters for the admin landing page.
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats

	h.db.Model(&models.Doctor{}).Count(&stats.TotalDoctors)
	h.db.Model(&models.BlogPost{}).Where("published = ?", true).Count(&stats.TotalBlogPosts)
	h.db.Model(&models.Product{}).Where("active = ?", true).Count(&stats.TotalProducts)

	h.db.Model(&models.Appointment{}).Where("status = ?", models.AppointmentStatusPending).Count(&stats.PendingAppointments)
	h.db.Model(&models.AmbulanceRequest{}).Where("status = ?", "pending").Count(&stats.PendingAmbulanceRequests)
	h.db.Model(&models.Review{}).Where("status = ?", models.ReviewStatusPending).Count(&stats.PendingReviews)
	h.db.Model(&models.Order{}).Where("status = ?", "pending").Count(&stats.PendingOrders)

	var doctorApps, ambulanceApps, editRequests int64
	h.db.Model(&models.DoctorApplication{}).Where("status = ?", "pending").Count(&doctorApps)
	h.db.Model(&models.AmbulanceApplication{}).Where("status = ?", "pending").Count(&ambulanceApps)
	h.db.Model(&models.DataEditRequest{}).Where("status = ?", "pending").Count(&editRequests)
	stats.PendingApplications = doctorApps + ambulanceApps + editRequests

	var revenue struct{ Total float64 }
	h.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&revenue)
	stats.TotalRevenue = revenue.Total

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
