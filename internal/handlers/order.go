package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/services"
	"github.com/provigo/provigo-backend/internal/storage"
)

// OrderHandler serves the admin dashboard's order endpoints
type OrderHandler struct {
	store    storage.Store
	notifier *services.NotificationService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(store storage.Store, notifier *services.NotificationService) *OrderHandler {
	return &OrderHandler{
		store:    store,
		notifier: notifier,
	}
}

// ListOrders returns all orders, newest first
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.store.GetAllOrders()
	if err != nil {
		log.Printf("Fetch orders error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type updateStatusRequest struct {
	OrderRef string `json:"orderId"` // internal record reference
	Status   string `json:"status"`
}

// UpdateStatus moves an order through the fulfillment pipeline.
// Marking an order Delivered also sends the delivery SMS.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil || req.OrderRef == "" || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing orderId or status",
		})
	}
	if !models.ValidOrderStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	order, err := h.store.GetOrderByRef(req.OrderRef)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	if err != nil {
		log.Printf("Update order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	order.OrderStatus = req.Status
	order.UpdatedAt = time.Now()
	if err := h.store.UpdateOrder(order); err != nil {
		log.Printf("Update order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if req.Status == models.OrderStatusDelivered {
		h.notifier.SendDeliveryConfirmation(order)
	}

	return c.JSON(fiber.Map{"success": true, "status": req.Status})
}

type editOrderRequest struct {
	Ref           string `json:"id"`
	StudentName   string `json:"studentName"`
	SchoolName    string `json:"schoolName"`
	HouseYear     string `json:"houseYear"`
	Package       string `json:"package"`
	Price         int    `json:"price"`
	PhoneNumber   string `json:"phoneNumber"`
	PaymentStatus string `json:"paymentStatus"`
	OrderStatus   string `json:"orderStatus"`
}

// EditOrder replaces the editable fields of an order
func (h *OrderHandler) EditOrder(c *fiber.Ctx) error {
	var req editOrderRequest
	if err := c.BodyParser(&req); err != nil || req.Ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing order ID",
		})
	}

	order, err := h.store.GetOrderByRef(req.Ref)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}
	if err != nil {
		log.Printf("Edit order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	order.StudentName = req.StudentName
	order.SchoolName = req.SchoolName
	order.HouseYear = req.HouseYear
	order.Package = req.Package
	order.Price = req.Price
	order.PhoneNumber = req.PhoneNumber
	order.PaymentStatus = req.PaymentStatus
	order.OrderStatus = req.OrderStatus
	order.UpdatedAt = time.Now()

	if err := h.store.UpdateOrder(order); err != nil {
		log.Printf("Edit order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteOrder removes an order record
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	ref := c.Query("id")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing order ID",
		})
	}

	if err := h.store.DeleteOrder(ref); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Delete order error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
