package db

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// poolSize reads an integer pool knob from the environment, falling back to
// def when unset or malformed.
func poolSize(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

// NewPSQLStorage opens the postgres database that backs the doctors,
// appointments, store and blog data. DB_URL must be set; pool sizes can be
// tuned with DB_MAX_OPEN_CONNS and DB_MAX_IDLE_CONNS.
func NewPSQLStorage() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	connString := os.Getenv("DB_URL")
	if connString == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(connString), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(poolSize("DB_MAX_OPEN_CONNS", 25))
	sqlDB.SetMaxIdleConns(poolSize("DB_MAX_IDLE_CONNS", 25))

	return db, nil
}
