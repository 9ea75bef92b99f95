package models

import (
	"gorm.io/gorm"
)

// Review covers both doctor and product reviews; Scope tells them apart.
type Review struct {
	gorm.Model
	Scope       string `gorm:"column:scope;size:20;not null" json:"scope"`
	SubjectID   uint   `gorm:"column:subject_id;not null" json:"subject_id"`
	AuthorName  string `gorm:"column:author_name;size:255;not null" json:"author_name"`
	AuthorPhone string `gorm:"column:author_phone;size:20" json:"author_phone"`
	Rating      int    `gorm:"column:rating;not null" json:"rating"`
	Comment     string `gorm:"column:comment;type:text" json:"comment"`
	Status      string `gorm:"column:status;size:20;default:'pending'" json:"status"`
}

func (Review) TableName() string {
	return "reviews"
}

const (
	ReviewScopeDoctor  = "doctor"
	ReviewScopeProduct = "product"

	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
)
