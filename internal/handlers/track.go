package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/storage"
)

// TrackHandler serves the public order-tracking endpoint consumed by
// the marketing site.
type TrackHandler struct {
	store storage.Store
}

// NewTrackHandler creates a new tracking handler
func NewTrackHandler(store storage.Store) *TrackHandler {
	return &TrackHandler{store: store}
}

type trackingData struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"orderId"`
	Status          string     `json:"status"`
	PackageDetails  string     `json:"packageDetails"`
	Amount          int        `json:"amount"`
	DeliveryAddress string     `json:"deliveryAddress"`
	OrderDate       *time.Time `json:"orderDate"`
	UpdatedAt       *time.Time `json:"updatedAt"`
}

// Track looks an order up by record reference, falling back to the
// uppercased human-readable order ID.
func (h *TrackHandler) Track(c *fiber.Ctx) error {
	query := c.Query("orderId")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID is required parameter",
		})
	}

	order, err := h.store.GetOrderByRef(query)
	if errors.Is(err, storage.ErrNotFound) {
		order, err = h.store.GetOrderByOrderID(strings.ToUpper(query))
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	if err != nil {
		log.Printf("Tracking API error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	status := order.OrderStatus
	if status == "" {
		status = models.OrderStatusProcessing
	}
	pkg := order.Package
	if pkg == "" {
		pkg = "Custom"
	}

	address := strings.Trim(strings.TrimSpace(order.SchoolName+", "+order.HouseYear), ",")
	address = strings.TrimSpace(address)

	created := order.CreatedAt
	updated := order.UpdatedAt
	return c.JSON(fiber.Map{
		"order": trackingData{
			ID:              order.Ref,
			OrderID:         order.OrderID,
			Status:          status,
			PackageDetails:  pkg,
			Amount:          order.Price,
			DeliveryAddress: address,
			OrderDate:       &created,
			UpdatedAt:       &updated,
		},
	})
}
