package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/provigo/provigo-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local development
type MemoryStore struct {
	sessions map[string]*models.UssdSession // keyed by phone number
	orders   map[string]*models.Order       // keyed by internal ref
	smsLogs  []*models.SMSLog

	// Mutexes for thread safety
	sessionMu sync.RWMutex
	orderMu   sync.RWMutex
	smsMu     sync.RWMutex

	// Counters for ID generation
	orderCounters map[int]int // year -> last issued number
	orderSeq      uint
	smsSeq        uint
	sessionSeq    uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:      make(map[string]*models.UssdSession),
		orders:        make(map[string]*models.Order),
		orderCounters: make(map[int]int),
	}
}

// Session operations

func (m *MemoryStore) GetSession(phone string) (*models.UssdSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	session, exists := m.sessions[phone]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *session
	return &copied, nil
}

func (m *MemoryStore) CreateSession(session *models.UssdSession) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	m.sessionSeq++
	session.ID = m.sessionSeq
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	session.UpdatedAt = session.CreatedAt

	copied := *session
	m.sessions[session.PhoneNumber] = &copied
	return nil
}

// UpdateSession applies a partial update. Unset fields keep their
// previous values, protecting selections captured at earlier steps.
func (m *MemoryStore) UpdateSession(phone string, update *models.SessionUpdate) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	session, exists := m.sessions[phone]
	if !exists {
		return ErrNotFound
	}

	if update.Step != nil {
		session.Step = *update.Step
	}
	if update.SelectedPackage != nil {
		session.SelectedPackage = *update.SelectedPackage
	}
	if update.PackagePrice != nil {
		session.PackagePrice = *update.PackagePrice
	}
	if update.SchoolName != nil {
		session.SchoolName = *update.SchoolName
	}
	if update.StudentName != nil {
		session.StudentName = *update.StudentName
	}
	if update.HouseYear != nil {
		session.HouseYear = *update.HouseYear
	}
	session.UpdatedAt = time.Now()

	return nil
}

func (m *MemoryStore) DeleteSession(phone string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if _, exists := m.sessions[phone]; !exists {
		return ErrNotFound
	}
	delete(m.sessions, phone)
	return nil
}

func (m *MemoryStore) DeleteExpiredSessions(olderThan time.Time) (int, error) {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	removed := 0
	for phone, session := range m.sessions {
		if session.CreatedAt.Before(olderThan) {
			delete(m.sessions, phone)
			removed++
		}
	}
	return removed, nil
}

// Order operations

func (m *MemoryStore) CreateOrder(order *models.Order) (*models.Order, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	m.orderSeq++
	order.ID = m.orderSeq
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	copied := *order
	m.orders[order.Ref] = &copied
	return order, nil
}

func (m *MemoryStore) GetOrderByRef(ref string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	order, exists := m.orders[ref]
	if !exists {
		return nil, ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *MemoryStore) GetOrderByOrderID(orderID string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	for _, order := range m.orders {
		if order.OrderID != "" && order.OrderID == orderID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// GetOrderByStudentName matches the stored name exactly, including
// case. Tracking relies on this being stricter than order ID lookup.
func (m *MemoryStore) GetOrderByStudentName(name string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	for _, order := range m.orders {
		if order.StudentName == name {
			copied := *order
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetAllOrders() ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	orders := make([]*models.Order, 0, len(m.orders))
	for _, order := range m.orders {
		copied := *order
		orders = append(orders, &copied)
	}

	// Newest first, matching the dashboard listing
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *MemoryStore) UpdateOrder(order *models.Order) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	if _, exists := m.orders[order.Ref]; !exists {
		return ErrNotFound
	}
	order.UpdatedAt = time.Now()
	copied := *order
	m.orders[order.Ref] = &copied
	return nil
}

func (m *MemoryStore) DeleteOrder(ref string) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	if _, exists := m.orders[ref]; !exists {
		return ErrNotFound
	}
	delete(m.orders, ref)
	return nil
}

func (m *MemoryStore) NextOrderNumber(year int) (int, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	m.orderCounters[year]++
	return m.orderCounters[year], nil
}

// SMS log operations

func (m *MemoryStore) CreateSMSLog(entry *models.SMSLog) error {
	m.smsMu.Lock()
	defer m.smsMu.Unlock()

	m.smsSeq++
	entry.ID = m.smsSeq
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	copied := *entry
	m.smsLogs = append(m.smsLogs, &copied)
	return nil
}

func (m *MemoryStore) GetRecentSMSLogs(limit int) ([]*models.SMSLog, error) {
	m.smsMu.RLock()
	defer m.smsMu.RUnlock()

	logs := make([]*models.SMSLog, 0, len(m.smsLogs))
	for _, entry := range m.smsLogs {
		copied := *entry
		logs = append(logs, &copied)
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})

	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
