package api

import (
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/service/ads"
	"github.com/rangpurcare/rangpurcare-server/service/ambulance"
	"github.com/rangpurcare/rangpurcare-server/service/application"
	"github.com/rangpurcare/rangpurcare-server/service/appointment"
	"github.com/rangpurcare/rangpurcare-server/service/blog"
	"github.com/rangpurcare/rangpurcare-server/service/dashboard"
	"github.com/rangpurcare/rangpurcare-server/service/doctor"
	notification "github.com/rangpurcare/rangpurcare-server/service/notifications"
	"github.com/rangpurcare/rangpurcare-server/service/payment"
	"github.com/rangpurcare/rangpurcare-server/service/review"
	"github.com/rangpurcare/rangpurcare-server/service/seo"
	"github.com/rangpurcare/rangpurcare-server/service/settings"
	"github.com/rangpurcare/rangpurcare-server/service/store"
	"github.com/rangpurcare/rangpurcare-server/service/transactions"
	"github.com/rangpurcare/rangpurcare-server/service/user"
)

type APIServer struct {
	address string
	db      *gorm.DB
	redis   *redis.Client
}

func NewApiServer(address string, db *gorm.DB, rdb *redis.Client) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
		redis:   rdb,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	doctorHandler := doctor.NewDoctorHandler(s.db)
	doctorHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(s.db)
	appointmentHandler.RegisterRoutes(subrouter)

	notifier := notification.NewNotifier(s.db)
	notificationHandler := notification.NewNotificationHandler(s.db, notifier)
	notificationHandler.RegisterRoutes(subrouter)

	ambulanceHandler := ambulance.NewAmbulanceHandler(s.db, notifier)
	ambulanceHandler.RegisterRoutes(subrouter)

	reviewHandler := review.NewReviewHandler(s.db)
	reviewHandler.RegisterRoutes(subrouter)

	blogHandler := blog.NewBlogHandler(s.db)
	blogHandler.RegisterRoutes(subrouter)

	storeHandler := store.NewStoreHandler(s.db)
	storeHandler.RegisterRoutes(subrouter)

	paymentHandler := payment.NewPaymentHandler(s.db, s.redis)
	paymentHandler.RegisterRoutes(subrouter)

	seoHandler := seo.NewSEOHandler(s.db)
	seoHandler.RegisterRoutes(subrouter)

	adHandler := ads.NewAdHandler(s.db, s.redis)
	adHandler.RegisterRoutes(subrouter)

	settingsHandler := settings.NewSettingsHandler(s.db)
	settingsHandler.RegisterRoutes(subrouter)

	applicationHandler := application.NewApplicationHandler(s.db)
	applicationHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	transactionHandler := transactions.NewTransactionHandler(s.db)
	transactionHandler.RegisterRoutes(subrouter)

	fileServer := http.FileServer(http.Dir("uploads/images"))
	router.PathPrefix("/images/").Handler(http.StripPrefix("/images/", fileServer))

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, corsHandler(router))
}
