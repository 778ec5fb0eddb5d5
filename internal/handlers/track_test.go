package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/storage"
)

func newTrackApp(store storage.Store) *fiber.App {
	handler := NewTrackHandler(store)
	app := fiber.New()
	app.Get("/api/track", handler.Track)
	return app
}

func TestTrackByRefAndOrderID(t *testing.T) {
	store := storage.NewMemoryStore()
	_, err := store.CreateOrder(&models.Order{
		Ref:         "ref-track",
		OrderID:     "PVG-2026-0005",
		SchoolName:  "Mfantsipim",
		HouseYear:   "Aggrey House, Year 1",
		Package:     "Starter",
		Price:       350,
		OrderStatus: models.OrderStatusDispatched,
	})
	require.NoError(t, err)
	app := newTrackApp(store)

	for _, query := range []string{"ref-track", "pvg-2026-0005"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/track?orderId="+query, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, "query %q", query)

		var parsed struct {
			Order struct {
				ID              string `json:"id"`
				OrderID         string `json:"orderId"`
				Status          string `json:"status"`
				PackageDetails  string `json:"packageDetails"`
				Amount          int    `json:"amount"`
				DeliveryAddress string `json:"deliveryAddress"`
			} `json:"order"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.Equal(t, "ref-track", parsed.Order.ID)
		assert.Equal(t, "PVG-2026-0005", parsed.Order.OrderID)
		assert.Equal(t, models.OrderStatusDispatched, parsed.Order.Status)
		assert.Equal(t, "Starter", parsed.Order.PackageDetails)
		assert.Equal(t, 350, parsed.Order.Amount)
		assert.Equal(t, "Mfantsipim, Aggrey House, Year 1", parsed.Order.DeliveryAddress)
	}
}

func TestTrackMissingAndUnknown(t *testing.T) {
	app := newTrackApp(storage.NewMemoryStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/track", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/track?orderId=PVG-1999-0001", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
