package models

import (
	"time"

	"gorm.io/gorm"
)

// DriverDevice is a registered push target for the ambulance driver app.
type DriverDevice struct {
	gorm.Model
	Token      string `gorm:"not null;uniqueIndex:idx_token_driver" json:"token"`
	DriverID   uint   `gorm:"not null;index;uniqueIndex:idx_token_driver" json:"driver_id"`
	DeviceType string `gorm:"type:varchar(50)" json:"device_type"`
	DeviceName string `gorm:"type:varchar(100)" json:"device_name,omitempty"`
}

func (DriverDevice) TableName() string {
	return "driver_devices"
}

type NotificationHistory struct {
	gorm.Model
	DriverID uint      `gorm:"index" json:"driver_id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Data     string    `gorm:"type:text" json:"data,omitempty"`
	Status   string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	SentAt   time.Time `json:"sent_at"`
}
