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

func TestGetStats(t *testing.T) {
	store := storage.NewMemoryStore()
	orders := []*models.Order{
		{Ref: "r1", Package: "Starter", Price: 350, PaymentStatus: models.PaymentStatusPaid},
		{Ref: "r2", Package: "Starter", Price: 350, PaymentStatus: models.PaymentStatusPaid},
		{Ref: "r3", Package: "Ready Box", Price: 580, PaymentStatus: models.PaymentStatusPending},
		{Ref: "r4", Package: "Custom Pack", Price: 100, PaymentStatus: models.PaymentStatusPending},
	}
	for _, order := range orders {
		_, err := store.CreateOrder(order)
		require.NoError(t, err)
	}

	handler := NewStatsHandler(store, []string{"Starter", "Ready Box", "Dadabee"})
	app := fiber.New()
	app.Get("/api/stats", handler.GetStats)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		TotalOrders   int `json:"totalOrders"`
		PaidOrders    int `json:"paidOrders"`
		PendingOrders int `json:"pendingOrders"`
		TotalRevenue  int `json:"totalRevenue"`
		PackageData   []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"packageData"`
		OrdersTrend []struct {
			Date  string `json:"date"`
			Count int    `json:"count"`
		} `json:"ordersTrend"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))

	assert.Equal(t, 4, parsed.TotalOrders)
	assert.Equal(t, 2, parsed.PaidOrders)
	assert.Equal(t, 2, parsed.PendingOrders)
	assert.Equal(t, 700, parsed.TotalRevenue, "revenue counts paid orders only")

	require.Len(t, parsed.PackageData, 3)
	assert.Equal(t, "Starter", parsed.PackageData[0].Name)
	assert.Equal(t, 2, parsed.PackageData[0].Count)
	assert.Equal(t, 1, parsed.PackageData[1].Count)
	assert.Equal(t, 0, parsed.PackageData[2].Count, "off-catalog packages are not charted")

	// All four created today
	require.Len(t, parsed.OrdersTrend, 1)
	assert.Equal(t, 4, parsed.OrdersTrend[0].Count)
}
