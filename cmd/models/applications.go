package models

import (
	"gorm.io/gorm"
)

type DoctorApplication struct {
	gorm.Model
	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	Phone     string `gorm:"column:phone;size:20;not null" json:"phone"`
	Email     string `gorm:"column:email;size:255" json:"email"`
	Category  string `gorm:"column:category;size:100" json:"category"`
	Degrees   string `gorm:"column:degrees;type:text" json:"degrees"`
	Workplace string `gorm:"column:workplace;size:255" json:"workplace"`
	Message   string `gorm:"column:message;type:text" json:"message"`
	Status    string `gorm:"column:status;size:20;default:'pending'" json:"status"`
}

func (DoctorApplication) TableName() string {
	return "doctor_applications"
}

type AmbulanceApplication struct {
	gorm.Model
	Name          string `gorm:"column:name;size:255;not null" json:"name"`
	Phone         string `gorm:"column:phone;size:20;not null" json:"phone"`
	VehicleType   string `gorm:"column:vehicle_type;size:100" json:"vehicle_type"`
	VehicleNumber string `gorm:"column:vehicle_number;size:50" json:"vehicle_number"`
	District      string `gorm:"column:district;size:100" json:"district"`
	Message       string `gorm:"column:message;type:text" json:"message"`
	Status        string `gorm:"column:status;size:20;default:'pending'" json:"status"`
}

func (AmbulanceApplication) TableName() string {
	return "ambulance_applications"
}

// DataEditRequest lets visitors report wrong listing data (a doctor's chamber
// moved, an ambulance number changed) for admin review.
type DataEditRequest struct {
	gorm.Model
	EntityType    string `gorm:"column:entity_type;size:50;not null" json:"entity_type"`
	EntitySlug    string `gorm:"column:entity_slug;size:255" json:"entity_slug"`
	RequesterName string `gorm:"column:requester_name;size:255" json:"requester_name"`
	Phone         string `gorm:"column:phone;size:20" json:"phone"`
	Description   string `gorm:"column:description;type:text;not null" json:"description"`
	Status        string `gorm:"column:status;size:20;default:'pending'" json:"status"`
}

func (DataEditRequest) TableName() string {
	return "data_edit_requests"
}
