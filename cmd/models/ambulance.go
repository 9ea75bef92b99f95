package models

import (
	"gorm.io/gorm"
)

type AmbulanceDriver struct {
	gorm.Model
	Name          string `gorm:"column:name;size:255;not null" json:"name"`
	Phone         string `gorm:"column:phone;size:20;not null" json:"phone"`
	VehicleType   string `gorm:"column:vehicle_type;size:100" json:"vehicle_type"`
	VehicleNumber string `gorm:"column:vehicle_number;size:50" json:"vehicle_number"`
	District      string `gorm:"column:district;size:100;default:'Rangpur'" json:"district"`
	Area          string `gorm:"column:area;size:255" json:"area"`
	HasOxygen     bool   `gorm:"column:has_oxygen;default:false" json:"has_oxygen"`
	HasAC         bool   `gorm:"column:has_ac;default:false" json:"has_ac"`
	HasStretcher  bool   `gorm:"column:has_stretcher;default:false" json:"has_stretcher"`
	ImagePath     string `gorm:"column:image_path;size:255" json:"image_path"`
	Active        bool   `gorm:"column:active;default:true" json:"active"`
	Available     bool   `gorm:"column:available;default:true" json:"available"`
	Featured      bool   `gorm:"column:featured;default:false" json:"featured"`
}

func (AmbulanceDriver) TableName() string {
	return "ambulance_drivers"
}

type AmbulanceRequest struct {
	gorm.Model
	RequesterName  string `gorm:"column:requester_name;size:255;not null" json:"requester_name"`
	RequesterPhone string `gorm:"column:requester_phone;size:20;not null" json:"requester_phone"`
	PickupLocation string `gorm:"column:pickup_location;type:text;not null" json:"pickup_location"`
	Destination    string `gorm:"column:destination;type:text;not null" json:"destination"`
	Urgent         bool   `gorm:"column:urgent;default:false" json:"urgent"`
	Notes          string `gorm:"column:notes;type:text" json:"notes"`
	Status         string `gorm:"column:status;size:20;default:'pending'" json:"status"`
	DriverID       *uint  `gorm:"column:driver_id" json:"driver_id,omitempty"`

	Driver *AmbulanceDriver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}

func (AmbulanceRequest) TableName() string {
	return "ambulance_requests"
}

type DriverAccessCode struct {
	gorm.Model
	Code     string `gorm:"column:code;size:20;uniqueIndex;not null" json:"code"`
	DriverID *uint  `gorm:"column:driver_id" json:"driver_id,omitempty"`
	Active   bool   `gorm:"column:active;default:true" json:"active"`

	Driver *AmbulanceDriver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}

func (DriverAccessCode) TableName() string {
	return "driver_access_codes"
}
