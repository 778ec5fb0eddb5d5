package models

import "gorm.io/gorm"

// SMSLog records every outbound notification SMS for the dashboard.
type SMSLog struct {
	gorm.Model
	OrderID     string `json:"orderId"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
	Type        string `json:"type"`   // "payment_confirmation", "delivery_confirmation"
	Status      string `json:"status"` // "sent", "failed"
}

// SMS log type and status constants
const (
	SMSTypePaymentConfirmation  = "payment_confirmation"
	SMSTypeDeliveryConfirmation = "delivery_confirmation"

	SMSStatusSent   = "sent"
	SMSStatusFailed = "failed"
)
