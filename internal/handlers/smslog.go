package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/storage"
)

// SMSLogHandler serves the dashboard's SMS log view
type SMSLogHandler struct {
	store storage.Store
}

// NewSMSLogHandler creates a new SMS log handler
func NewSMSLogHandler(store storage.Store) *SMSLogHandler {
	return &SMSLogHandler{store: store}
}

// ListLogs returns the latest 100 outbound SMS records
func (h *SMSLogHandler) ListLogs(c *fiber.Ctx) error {
	logs, err := h.store.GetRecentSMSLogs(100)
	if err != nil {
		log.Printf("Fetch SMS logs error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"logs": logs})
}
