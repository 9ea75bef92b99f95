package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	PublicID       string         `gorm:"column:public_id;size:36;uniqueIndex;not null" json:"public_id"`
	Slug           string         `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	Name           string         `gorm:"column:name;size:255;not null" json:"name"`
	NameBn         string         `gorm:"column:name_bn;size:255" json:"name_bn"`
	Category       string         `gorm:"column:category;size:100;not null" json:"category"`
	District       string         `gorm:"column:district;size:100;default:'Rangpur'" json:"district"`
	Degrees        string         `gorm:"column:degrees;type:text" json:"degrees"`
	Workplace      string         `gorm:"column:workplace;size:255" json:"workplace"`
	ChamberAddress string         `gorm:"column:chamber_address;type:text" json:"chamber_address"`
	ImagePath      string         `gorm:"column:image_path;size:255" json:"image_path"`
	AvailableDays  pq.StringArray `gorm:"column:available_days;type:text[]" json:"available_days"`
	VisitingFee    float64        `gorm:"column:visiting_fee;default:0" json:"visiting_fee"`
	SerialFee      float64        `gorm:"column:serial_fee;default:0" json:"serial_fee"`
	Available      bool           `gorm:"column:available;default:true" json:"available"`
	Featured       bool           `gorm:"column:featured;default:false" json:"featured"`

	// Aggregates maintained when a review is approved
	Rating       float64 `gorm:"column:rating;default:0" json:"rating"`
	TotalReviews int     `gorm:"column:total_reviews;default:0" json:"total_reviews"`
}

func (Doctor) TableName() string {
	return "doctors"
}
