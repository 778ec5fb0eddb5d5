package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/services"
	"github.com/provigo/provigo-backend/internal/storage"
)

func newOrderApp(store storage.Store) *fiber.App {
	notifier := services.NewNotificationService(store, nullSender{})
	handler := NewOrderHandler(store, notifier)

	app := fiber.New()
	app.Get("/api/orders", handler.ListOrders)
	app.Put("/api/orders/update", handler.UpdateStatus)
	app.Put("/api/orders/edit", handler.EditOrder)
	app.Delete("/api/orders/delete", handler.DeleteOrder)
	return app
}

func seedOrder(t *testing.T, store storage.Store) *models.Order {
	t.Helper()
	order, err := store.CreateOrder(&models.Order{
		Ref:           "ref-admin",
		OrderID:       "PVG-2026-0011",
		StudentName:   "Ama",
		SchoolName:    "Wesley Girls",
		HouseYear:     "Year 2",
		Package:       "Ready Box",
		Price:         580,
		PhoneNumber:   "233200000010",
		PaymentStatus: models.PaymentStatusPaid,
		OrderStatus:   models.OrderStatusConfirmed,
	})
	require.NoError(t, err)
	return order
}

func putJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestListOrders(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Orders []models.Order `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Len(t, parsed.Orders, 1)
	assert.Equal(t, "PVG-2026-0011", parsed.Orders[0].OrderID)
}

func TestUpdateStatusValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	resp := putJSON(t, app, "/api/orders/update", map[string]string{
		"orderId": "ref-admin",
		"status":  "Teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = putJSON(t, app, "/api/orders/update", map[string]string{
		"orderId": "no-such-ref",
		"status":  models.OrderStatusDispatched,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatusDeliveredSendsSMS(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	resp := putJSON(t, app, "/api/orders/update", map[string]string{
		"orderId": "ref-admin",
		"status":  models.OrderStatusDelivered,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	order, err := store.GetOrderByRef("ref-admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.OrderStatus)

	logs, err := store.GetRecentSMSLogs(10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SMSTypeDeliveryConfirmation, logs[0].Type)
}

func TestUpdateStatusDispatchedSendsNoSMS(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	resp := putJSON(t, app, "/api/orders/update", map[string]string{
		"orderId": "ref-admin",
		"status":  models.OrderStatusDispatched,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	logs, err := store.GetRecentSMSLogs(10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestEditOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	resp := putJSON(t, app, "/api/orders/edit", map[string]interface{}{
		"id":            "ref-admin",
		"studentName":   "Ama Serwaa",
		"schoolName":    "Wesley Girls",
		"houseYear":     "Year 3",
		"package":       "Dadabee",
		"price":         780,
		"phoneNumber":   "233200000010",
		"paymentStatus": models.PaymentStatusPaid,
		"orderStatus":   models.OrderStatusConfirmed,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	order, err := store.GetOrderByRef("ref-admin")
	require.NoError(t, err)
	assert.Equal(t, "Ama Serwaa", order.StudentName)
	assert.Equal(t, "Dadabee", order.Package)
	assert.Equal(t, 780, order.Price)
}

func TestDeleteOrder(t *testing.T) {
	store := storage.NewMemoryStore()
	seedOrder(t, store)
	app := newOrderApp(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/orders/delete?id=ref-admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = store.GetOrderByRef("ref-admin")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
