package services

import (
	"fmt"
	"time"

	"github.com/provigo/provigo-backend/internal/storage"
)

// GenerateOrderID issues the next human-readable order ID for the
// year, e.g. "PVG-2026-0042". Called once per order, when the payment
// webhook confirms the charge.
func GenerateOrderID(store storage.Store, now time.Time) (string, error) {
	year := now.Year()
	n, err := store.NextOrderNumber(year)
	if err != nil {
		return "", fmt.Errorf("next order number: %w", err)
	}
	return fmt.Sprintf("PVG-%d-%04d", year, n), nil
}
