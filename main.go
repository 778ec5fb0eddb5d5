package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/provigo/provigo-backend/database"
	"github.com/provigo/provigo-backend/internal/jobs"
	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/routes"
	"github.com/provigo/provigo-backend/internal/services"
	"github.com/provigo/provigo-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	// Check if we should use memory store (for testing)
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		// Connect to database
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		// Run migrations
		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Order{},
			&models.UssdSession{},
			&models.SMSLog{},
			&models.OrderCounter{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// Payment gateway
	paystackClient, err := services.NewPaystackClient()
	if err != nil {
		log.Fatal("Failed to initialize Paystack client:", err)
	}
	log.Println("✅ Paystack client initialized")

	// SMS provider
	smsSender, err := services.NewSMSSenderFromEnv()
	if err != nil {
		log.Fatal("Failed to initialize SMS sender:", err)
	}
	notifier := services.NewNotificationService(store, smsSender)
	log.Println("✅ SMS sender initialized")

	// USSD menu service — one configuration surface for the flow
	ussdConfig := loadUSSDConfig()
	ussdService := services.NewUSSDService(store, paystackClient, ussdConfig)

	// Reap abandoned sessions in the background
	sessionReaper := jobs.NewSessionReaper(store, ussdConfig.SessionExpiry)
	sessionReaper.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ProviGO Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check endpoint with database status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service":     "ProviGO Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"ussd": fiber.Map{
				"service_code": ussdConfig.ServiceCode,
				"expiry":       ussdConfig.SessionExpiry.String(),
			},
		}

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var orderCount, sessionCount, smsCount int64
			database.DB.Model(&models.Order{}).Count(&orderCount)
			database.DB.Model(&models.UssdSession{}).Count(&sessionCount)
			database.DB.Model(&models.SMSLog{}).Count(&smsCount)

			response["database"] = fiber.Map{
				"status":   dbStatus,
				"orders":   orderCount,
				"sessions": sessionCount,
				"sms_logs": smsCount,
			}
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
		})
	})

	// Setup routes
	packageNames := make([]string, 0, len(ussdConfig.Packages))
	for _, pkg := range ussdConfig.Packages {
		packageNames = append(packageNames, pkg.Name)
	}
	routes.SetupRoutes(app, store, ussdService, notifier, packageNames)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		sessionReaper.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 ProviGO Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 USSD service code: %s", ussdConfig.ServiceCode)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// loadUSSDConfig applies environment overrides to the default menu
// configuration.
func loadUSSDConfig() services.USSDConfig {
	config := services.DefaultUSSDConfig()

	if userID := os.Getenv("NALO_USER_ID"); userID != "" {
		config.ServiceUserID = userID
	}
	if code := os.Getenv("USSD_SERVICE_CODE"); code != "" {
		config.ServiceCode = code
	}
	if minutes := os.Getenv("SESSION_EXPIRY_MINUTES"); minutes != "" {
		if n, err := strconv.Atoi(minutes); err == nil && n > 0 {
			config.SessionExpiry = time.Duration(n) * time.Minute
		}
	}
	return config
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
