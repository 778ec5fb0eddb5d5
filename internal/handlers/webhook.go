package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/services"
	"github.com/provigo/provigo-backend/internal/storage"
)

// PaystackWebhookHandler processes payment gateway events. Signature
// validation happens in middleware before this handler runs.
type PaystackWebhookHandler struct {
	store    storage.Store
	notifier *services.NotificationService
	now      func() time.Time
}

// NewPaystackWebhookHandler creates a new webhook handler
func NewPaystackWebhookHandler(store storage.Store, notifier *services.NotificationService) *PaystackWebhookHandler {
	return &PaystackWebhookHandler{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string            `json:"reference"`
		Metadata  map[string]string `json:"metadata"`
	} `json:"data"`
}

// HandleWebhook acknowledges every verified event with 200 so the
// gateway stops retrying; unprocessable events are logged, not failed.
func (h *PaystackWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var event paystackEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		log.Printf("Webhook error: parsing event: %v", err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	if event.Event != "charge.success" {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	orderRef := event.Data.Metadata["orderRef"]
	if orderRef == "" {
		log.Printf("Webhook error: no orderRef in charge.success metadata")
		return c.JSON(fiber.Map{"status": "ok"})
	}

	order, err := h.store.GetOrderByRef(orderRef)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("Webhook error: order not found: %s", orderRef)
		return c.JSON(fiber.Map{"status": "ok"})
	}
	if err != nil {
		log.Printf("Webhook error: loading order %s: %v", orderRef, err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	orderID, err := services.GenerateOrderID(h.store, h.now())
	if err != nil {
		log.Printf("Webhook error: generating order ID for %s: %v", orderRef, err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	paidAt := h.now()
	order.OrderID = orderID
	order.PaymentStatus = models.PaymentStatusPaid
	order.OrderStatus = models.OrderStatusConfirmed
	order.PaystackReference = event.Data.Reference
	order.PaidAt = &paidAt
	order.UpdatedAt = paidAt

	if err := h.store.UpdateOrder(order); err != nil {
		log.Printf("Webhook error: updating order %s: %v", orderRef, err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	h.notifier.SendPaymentConfirmation(order)
	log.Printf("Order %s confirmed via Paystack reference %s", orderID, event.Data.Reference)

	return c.JSON(fiber.Map{"status": "ok"})
}
