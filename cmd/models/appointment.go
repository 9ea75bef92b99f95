package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	gorm.Model
	BookingRef      string    `gorm:"column:booking_ref;size:50;uniqueIndex;not null" json:"booking_ref"`
	DoctorID        uint      `gorm:"column:doctor_id;not null" json:"doctor_id"`
	PatientName     string    `gorm:"column:patient_name;size:255;not null" json:"patient_name"`
	PatientPhone    string    `gorm:"column:patient_phone;size:20;not null" json:"patient_phone"`
	PatientEmail    string    `gorm:"column:patient_email;size:255" json:"patient_email"`
	PatientAge      int       `gorm:"column:patient_age" json:"patient_age"`
	PatientGender   string    `gorm:"column:patient_gender;size:20" json:"patient_gender"`
	AppointmentDate time.Time `gorm:"column:appointment_date;not null" json:"appointment_date"`
	SerialType      string    `gorm:"column:serial_type;size:50" json:"serial_type"`
	SerialNumber    int       `gorm:"column:serial_number" json:"serial_number"`
	Status          string    `gorm:"column:status;size:20;default:'pending'" json:"status"`
	PaymentStatus   string    `gorm:"column:payment_status;size:20;not null;default:unpaid" json:"payment_status"`
	PaymentID       string    `gorm:"column:payment_id;size:255" json:"payment_id,omitempty"`
	Amount          float64   `gorm:"column:amount;not null" json:"amount"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)
