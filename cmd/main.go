package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/api"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/db"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrations()
			return
		case "clear-db":
			runDatabaseClear()
			return
		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
	}

	startServer()
}

func runMigrations() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database for migrations")

	if err := performMigrations(DB); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
	log.Println("Migrations completed successfully")
}

func performMigrations(DB *gorm.DB) error {

	migrations := map[interface{}]string{
		&models.User{}:                 "User",
		&models.PasswordResetToken{}:   "PasswordResetToken",
		&models.Doctor{}:               "Doctor",
		&models.Appointment{}:          "Appointment",
		&models.AmbulanceDriver{}:      "AmbulanceDriver",
		&models.AmbulanceRequest{}:     "AmbulanceRequest",
		&models.DriverAccessCode{}:     "DriverAccessCode",
		&models.DriverDevice{}:         "DriverDevice",
		&models.NotificationHistory{}:  "NotificationHistory",
		&models.Review{}:               "Review",
		&models.BlogPost{}:             "BlogPost",
		&models.Product{}:              "Product",
		&models.Order{}:                "Order",
		&models.OrderItem{}:            "OrderItem",
		&models.Transaction{}:          "Transaction",
		&models.BkashSettings{}:        "BkashSettings",
		&models.BkashSettingsHistory{}: "BkashSettingsHistory",
		&models.ContactSettings{}:      "ContactSettings",
		&models.SerialTypeSetting{}:    "SerialTypeSetting",
		&models.AdSettings{}:           "AdSettings",
		&models.DoctorApplication{}:    "DoctorApplication",
		&models.AmbulanceApplication{}: "AmbulanceApplication",
		&models.DataEditRequest{}:      "DataEditRequest",
	}

	log.Println("Starting database migrations...")
	for model, name := range migrations {
		log.Printf("Migrating %s table...", name)
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", name, err)
		}
		log.Printf("%s migration successful", name)
	}

	directories := []string{
		"uploads/images",
	}

	for _, dir := range directories {
		if err := createDirectoryIfNotExist(dir); err != nil {
			log.Fatalf("Error creating directory %s: %v", dir, err)
		}
		log.Printf("Directory %s created/verified", dir)
	}

	log.Println("All migrations and directory setup completed successfully")
	return nil
}

func createDirectoryIfNotExist(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("could not create directory %s: %w", path, err)
		}
	}
	return nil
}

func startServer() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()
	log.Println("Connected to the database")

	redisClient, err := db.NewRedisClient()
	if err != nil {
		log.Fatalf("Redis initialization error: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to redis")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	server := api.NewApiServer(":"+port, DB, redisClient)

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", port)

	<-quit
	log.Println("Shutting down server...")
}

func clearDatabase(DB *gorm.DB, tables []interface{}) error {
	if len(tables) == 0 {
		tables = []interface{}{
			&models.OrderItem{},
			&models.Order{},
			&models.Product{},
			&models.Transaction{},
			&models.Review{},
			&models.BlogPost{},
			&models.Appointment{},
			&models.Doctor{},
			&models.NotificationHistory{},
			&models.DriverDevice{},
			&models.DriverAccessCode{},
			&models.AmbulanceRequest{},
			&models.AmbulanceDriver{},
			&models.BkashSettingsHistory{},
			&models.BkashSettings{},
			&models.ContactSettings{},
			&models.SerialTypeSetting{},
			&models.AdSettings{},
			&models.DoctorApplication{},
			&models.AmbulanceApplication{},
			&models.DataEditRequest{},
			&models.PasswordResetToken{},
			&models.User{},
		}
	}

	log.Println("Dropping tables...")

	for _, table := range tables {
		if err := DB.Migrator().DropTable(table); err != nil {
			log.Printf("Warning dropping table %T: %v", table, err)
		} else {
			log.Printf("Table %T dropped", table)
		}
	}

	return nil
}

func runDatabaseClear() {
	DB, err := db.NewPSQLStorage()
	if err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}
	defer func() {
		sqlDB, _ := DB.DB()
		sqlDB.Close()
		log.Println("Database connection closed")
	}()

	log.Println("Preparing to clear database...")

	var confirmation string
	fmt.Print("Are you sure you want to clear the database? (yes/no): ")
	fmt.Scanln(&confirmation)

	if confirmation != "yes" {
		log.Println("Database clearing cancelled.")
		return
	}

	var tableNames string
	fmt.Print("Enter table names to clear (comma separated) or leave blank to clear all: ")
	fmt.Scanln(&tableNames)

	var tables []interface{}
	if tableNames != "" {
		for _, table := range strings.Split(tableNames, ",") {
			switch strings.TrimSpace(table) {
			case "User":
				tables = append(tables, &models.User{})
			case "Doctor":
				tables = append(tables, &models.Doctor{})
			case "Appointment":
				tables = append(tables, &models.Appointment{})
			case "AmbulanceDriver":
				tables = append(tables, &models.AmbulanceDriver{})
			case "AmbulanceRequest":
				tables = append(tables, &models.AmbulanceRequest{})
			case "Review":
				tables = append(tables, &models.Review{})
			case "BlogPost":
				tables = append(tables, &models.BlogPost{})
			case "Product":
				tables = append(tables, &models.Product{})
			case "Order":
				tables = append(tables, &models.Order{})
			case "OrderItem":
				tables = append(tables, &models.OrderItem{})
			case "Transaction":
				tables = append(tables, &models.Transaction{})
			default:
				log.Printf("Unknown table: %s", table)
			}
		}
	}

	if err := clearDatabase(DB, tables); err != nil {
		log.Fatalf("Error clearing database: %v", err)
	}

	log.Println("Database cleared successfully")
}
