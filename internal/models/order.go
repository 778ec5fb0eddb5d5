package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a provision order placed over the USSD channel
type Order struct {
	gorm.Model
	Ref         string `json:"ref" gorm:"uniqueIndex"` // internal record reference
	OrderID     string `json:"orderId" gorm:"index"`   // human-readable ID, assigned after payment
	StudentName string `json:"studentName"`
	SchoolName  string `json:"schoolName"`
	HouseYear   string `json:"houseYear"`
	Package     string `json:"package"`
	Price       int    `json:"price"` // whole cedis
	PhoneNumber string `json:"phoneNumber"`

	// Payment tracking
	PaymentStatus     string     `json:"paymentStatus"` // "pending", "paid"
	PaystackReference string     `json:"paystackReference"`
	PaidAt            *time.Time `json:"paidAt"`

	// Fulfillment tracking
	OrderStatus string `json:"orderStatus"` // "Processing", "Confirmed", "Dispatched", "Delivered"
}

// Payment and order status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	OrderStatusProcessing = "Processing"
	OrderStatusConfirmed  = "Confirmed"
	OrderStatusDispatched = "Dispatched"
	OrderStatusDelivered  = "Delivered"
)

// ValidOrderStatus reports whether s is one of the fulfillment statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusConfirmed, OrderStatusDispatched, OrderStatusDelivered:
		return true
	}
	return false
}
