package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/provigo/provigo-backend/internal/models"
)

// DatabaseStore implements Store on top of PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Session operations

func (d *DatabaseStore) GetSession(phone string) (*models.UssdSession, error) {
	var session models.UssdSession
	err := d.db.Where("phone_number = ?", phone).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *DatabaseStore) CreateSession(session *models.UssdSession) error {
	return d.db.Create(session).Error
}

func (d *DatabaseStore) UpdateSession(phone string, update *models.SessionUpdate) error {
	// Build a column map so untouched fields survive the update
	columns := map[string]interface{}{}
	if update.Step != nil {
		columns["step"] = *update.Step
	}
	if update.SelectedPackage != nil {
		columns["selected_package"] = *update.SelectedPackage
	}
	if update.PackagePrice != nil {
		columns["package_price"] = *update.PackagePrice
	}
	if update.SchoolName != nil {
		columns["school_name"] = *update.SchoolName
	}
	if update.StudentName != nil {
		columns["student_name"] = *update.StudentName
	}
	if update.HouseYear != nil {
		columns["house_year"] = *update.HouseYear
	}
	if len(columns) == 0 {
		return nil
	}

	result := d.db.Model(&models.UssdSession{}).Where("phone_number = ?", phone).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteSession(phone string) error {
	result := d.db.Where("phone_number = ?", phone).Delete(&models.UssdSession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteExpiredSessions(olderThan time.Time) (int, error) {
	result := d.db.Where("created_at < ?", olderThan).Delete(&models.UssdSession{})
	return int(result.RowsAffected), result.Error
}

// Order operations

func (d *DatabaseStore) CreateOrder(order *models.Order) (*models.Order, error) {
	if err := d.db.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (d *DatabaseStore) GetOrderByRef(ref string) (*models.Order, error) {
	var order models.Order
	err := d.db.Where("ref = ?", ref).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseStore) GetOrderByOrderID(orderID string) (*models.Order, error) {
	var order models.Order
	err := d.db.Where("order_id = ? AND order_id <> ''", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseStore) GetOrderByStudentName(name string) (*models.Order, error) {
	var order models.Order
	// Exact, case-sensitive match by contract
	err := d.db.Where("student_name = ?", name).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseStore) GetAllOrders() ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (d *DatabaseStore) UpdateOrder(order *models.Order) error {
	return d.db.Save(order).Error
}

func (d *DatabaseStore) DeleteOrder(ref string) error {
	result := d.db.Where("ref = ?", ref).Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) NextOrderNumber(year int) (int, error) {
	var issued int
	err := d.db.Transaction(func(tx *gorm.DB) error {
		var counter models.OrderCounter
		err := tx.Where("year = ?", year).First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.OrderCounter{Year: year, Count: 1}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
			issued = 1
			return nil
		}
		if err != nil {
			return err
		}
		counter.Count++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		issued = counter.Count
		return nil
	})
	return issued, err
}

// SMS log operations

func (d *DatabaseStore) CreateSMSLog(entry *models.SMSLog) error {
	return d.db.Create(entry).Error
}

func (d *DatabaseStore) GetRecentSMSLogs(limit int) ([]*models.SMSLog, error) {
	var logs []*models.SMSLog
	err := d.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
