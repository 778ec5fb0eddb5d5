package handlers

import (
	"log"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/storage"
)

// StatsHandler aggregates order figures for the dashboard
type StatsHandler struct {
	store    storage.Store
	packages []string // catalog names, fixes the chart ordering
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(store storage.Store, packages []string) *StatsHandler {
	return &StatsHandler{
		store:    store,
		packages: packages,
	}
}

type packageCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type trendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GetStats returns order totals, revenue and the 30-day order trend
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	orders, err := h.store.GetAllOrders()
	if err != nil {
		log.Printf("Stats error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	var totalOrders, paidOrders, pendingOrders, totalRevenue int
	counts := make(map[string]int, len(h.packages))
	for _, name := range h.packages {
		counts[name] = 0
	}
	byDate := map[string]int{}

	for _, order := range orders {
		totalOrders++

		if order.PaymentStatus == models.PaymentStatusPaid {
			paidOrders++
			totalRevenue += order.Price
		} else {
			pendingOrders++
		}

		if _, known := counts[order.Package]; known {
			counts[order.Package]++
		}

		byDate[order.CreatedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > 30 {
		dates = dates[len(dates)-30:]
	}
	trend := make([]trendPoint, 0, len(dates))
	for _, date := range dates {
		trend = append(trend, trendPoint{Date: date, Count: byDate[date]})
	}

	packageData := make([]packageCount, 0, len(h.packages))
	for _, name := range h.packages {
		packageData = append(packageData, packageCount{Name: name, Count: counts[name]})
	}

	return c.JSON(fiber.Map{
		"totalOrders":   totalOrders,
		"paidOrders":    paidOrders,
		"pendingOrders": pendingOrders,
		"totalRevenue":  totalRevenue,
		"packageData":   packageData,
		"ordersTrend":   trend,
	})
}
