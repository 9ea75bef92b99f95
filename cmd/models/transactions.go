package models

import (
	"gorm.io/gorm"
)

// Transaction is one settled gateway payment, written when a bKash callback
// completes for an appointment or a store order.
type Transaction struct {
	gorm.Model
	Reference string  `gorm:"column:reference;size:50;uniqueIndex;not null" json:"reference"`
	Amount    float64 `gorm:"column:amount;type:float;not null" json:"amount"`
	Method    string  `gorm:"column:method;type:text;not null" json:"method"`
	Purpose   string  `gorm:"column:purpose;type:text;not null" json:"purpose"`
	TrxID     string  `gorm:"column:trx_id;size:100" json:"trx_id"`
}
