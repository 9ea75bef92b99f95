package models

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Slug        string   `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug"`
	Name        string   `gorm:"column:name;size:255;not null" json:"name"`
	Description string   `gorm:"column:description;type:text" json:"description"`
	Price       float64  `gorm:"column:price;not null" json:"price"`
	SalePrice   *float64 `gorm:"column:sale_price" json:"sale_price,omitempty"`
	Stock       int      `gorm:"column:stock;default:0" json:"stock"`
	Category    string   `gorm:"column:category;size:100" json:"category"`
	ImagePath   string   `gorm:"column:image_path;size:255" json:"image_path"`
	Active      bool     `gorm:"column:active;default:true" json:"active"`
}

func (Product) TableName() string {
	return "products"
}

type Order struct {
	gorm.Model
	OrderRef       string  `gorm:"column:order_ref;size:50;uniqueIndex;not null" json:"order_ref"`
	CustomerName   string  `gorm:"column:customer_name;size:255;not null" json:"customer_name"`
	CustomerPhone  string  `gorm:"column:customer_phone;size:20;not null" json:"customer_phone"`
	Address        string  `gorm:"column:address;type:text;not null" json:"address"`
	DeliveryArea   string  `gorm:"column:delivery_area;size:20;not null" json:"delivery_area"`
	Subtotal       float64 `gorm:"column:subtotal;not null" json:"subtotal"`
	DeliveryCharge float64 `gorm:"column:delivery_charge;not null" json:"delivery_charge"`
	Total          float64 `gorm:"column:total;not null" json:"total"`
	Status         string  `gorm:"column:status;size:20;default:'pending'" json:"status"`
	PaymentStatus  string  `gorm:"column:payment_status;size:20;not null;default:unpaid" json:"payment_status"`
	PaymentID      string  `gorm:"column:payment_id;size:255" json:"payment_id,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"column:order_id;not null" json:"order_id"`
	ProductID uint    `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice float64 `gorm:"column:unit_price;not null" json:"unit_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
