package services

import (
	"log"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/storage"
)

// NotificationService sends order lifecycle SMS and records each
// attempt in the sms log for the dashboard.
type NotificationService struct {
	store  storage.Store
	sender SMSSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(store storage.Store, sender SMSSender) *NotificationService {
	return &NotificationService{
		store:  store,
		sender: sender,
	}
}

// SendPaymentConfirmation notifies the subscriber that payment was
// received and the package is being prepared.
func (n *NotificationService) SendPaymentConfirmation(order *models.Order) {
	message := BuildPaymentConfirmationSMS(order.OrderID, order.SchoolName)
	n.send(order, message, models.SMSTypePaymentConfirmation)
}

// SendDeliveryConfirmation notifies the subscriber that the package
// was delivered.
func (n *NotificationService) SendDeliveryConfirmation(order *models.Order) {
	message := BuildDeliveryConfirmationSMS(order.OrderID, order.SchoolName)
	n.send(order, message, models.SMSTypeDeliveryConfirmation)
}

func (n *NotificationService) send(order *models.Order, message, smsType string) {
	status := models.SMSStatusSent
	if err := n.sender.Send(order.PhoneNumber, message); err != nil {
		log.Printf("Failed to send %s SMS for order %s: %v", smsType, order.OrderID, err)
		status = models.SMSStatusFailed
	}

	entry := &models.SMSLog{
		OrderID:     order.OrderID,
		PhoneNumber: order.PhoneNumber,
		Message:     message,
		Type:        smsType,
		Status:      status,
	}
	if err := n.store.CreateSMSLog(entry); err != nil {
		log.Printf("Failed to log %s SMS for order %s: %v", smsType, order.OrderID, err)
	}
}
