package models

import "time"

// UssdSession stores temporary conversation state for the USSD menu.
// At most one session exists per subscriber; a stale row is treated as
// absent by the expiry policy and reaped by the session job.
//
// Deletes are hard deletes (no gorm.Model soft-delete column) so a
// subscriber can open a fresh session right after closing one without
// tripping the unique index.
type UssdSession struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	PhoneNumber string `json:"phone_number" gorm:"uniqueIndex"`
	Step        string `json:"step"`

	// Selections accumulated as the subscriber walks the menu
	SelectedPackage string `json:"selected_package"`
	PackagePrice    int    `json:"package_price"`
	SchoolName      string `json:"school_name"`
	StudentName     string `json:"student_name"`
	HouseYear       string `json:"house_year"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionUpdate is a partial session mutation. Nil fields are left
// untouched so a step can record one selection without erasing the
// rest of the flow's state.
type SessionUpdate struct {
	Step            *string
	SelectedPackage *string
	PackagePrice    *int
	SchoolName      *string
	StudentName     *string
	HouseYear       *string
}
