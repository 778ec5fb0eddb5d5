package models

// OrderCounter backs sequential order ID generation (PVG-<year>-<nnnn>).
// One row per year, incremented inside a transaction when a payment is
// confirmed.
type OrderCounter struct {
	ID    uint `gorm:"primaryKey"`
	Year  int  `gorm:"uniqueIndex"`
	Count int
}
