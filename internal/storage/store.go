package storage

import (
	"errors"
	"time"

	"github.com/provigo/provigo-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// USSD session operations
	GetSession(phone string) (*models.UssdSession, error)
	CreateSession(session *models.UssdSession) error
	UpdateSession(phone string, update *models.SessionUpdate) error
	DeleteSession(phone string) error
	DeleteExpiredSessions(olderThan time.Time) (int, error)

	// Order operations
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrderByRef(ref string) (*models.Order, error)
	GetOrderByOrderID(orderID string) (*models.Order, error)
	GetOrderByStudentName(name string) (*models.Order, error)
	GetAllOrders() ([]*models.Order, error)
	UpdateOrder(order *models.Order) error
	DeleteOrder(ref string) error

	// Sequential order numbering (per calendar year)
	NextOrderNumber(year int) (int, error)

	// SMS log operations
	CreateSMSLog(entry *models.SMSLog) error
	GetRecentSMSLogs(limit int) ([]*models.SMSLog, error)
}
