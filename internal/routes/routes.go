package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/provigo/provigo-backend/internal/handlers"
	"github.com/provigo/provigo-backend/internal/middleware"
	"github.com/provigo/provigo-backend/internal/services"
	"github.com/provigo/provigo-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, ussdService *services.USSDService, notifier *services.NotificationService, packageNames []string) {
	ussdHandler := handlers.NewUSSDHandler(ussdService)
	orderHandler := handlers.NewOrderHandler(store, notifier)
	statsHandler := handlers.NewStatsHandler(store, packageNames)
	smsLogHandler := handlers.NewSMSLogHandler(store)
	trackHandler := handlers.NewTrackHandler(store)
	webhookHandler := handlers.NewPaystackWebhookHandler(store, notifier)

	// API routes
	api := app.Group("/api")

	// USSD channel — NALO posts JSON/form and probes with GET
	api.Post("/ussd", ussdHandler.HandleUSSD)
	api.Get("/ussd", ussdHandler.HandleUSSD)

	// Admin dashboard
	orders := api.Group("/orders")
	orders.Get("/", orderHandler.ListOrders)
	orders.Put("/update", orderHandler.UpdateStatus)
	orders.Put("/edit", orderHandler.EditOrder)
	orders.Delete("/delete", orderHandler.DeleteOrder)

	api.Get("/stats", statsHandler.GetStats)
	api.Get("/sms-logs", smsLogHandler.ListLogs)

	// Public tracking for the marketing site, rate limited per client
	api.Get("/track", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
	}), trackHandler.Track)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Paystack webhook - ENVIRONMENT-AWARE VALIDATION
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: skip signature validation for local testing
		webhooks.Post("/paystack", webhookHandler.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			println("⚠️  Paystack webhook validation DISABLED for development")
		}
	} else {
		// Production: validate webhook signature
		webhooks.Post("/paystack", middleware.ValidatePaystackSignature(), webhookHandler.HandleWebhook)
	}
}
