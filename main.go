package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/jambotip/jambotip-backend/handlers"
	"github.com/jambotip/jambotip-backend/repository"
	"github.com/jambotip/jambotip-backend/routes"
	"github.com/jambotip/jambotip-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize New Relic
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName("JamboTip API"),
		newrelic.ConfigLicense(os.Getenv("NEW_RELIC_LICENSE_KEY")),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize New Relic: %v", err)
	}

	// Initialize database
	if err := repository.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repository.CloseDB()

	db := repository.GetDB()

	// Repositories
	tipRepo := repository.NewTipRepository(db)
	waiterRepo := repository.NewWaiterRepository(db)
	distributionRepo := repository.NewDistributionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)

	// Disbursement providers: M-Pesa primary, card rail as fallback
	provider := services.NewFallbackProvider(services.NewMpesaService(), services.NewCardwaveService())

	// Notification channels
	notifier := services.NewNotificationService(services.NewSMSChannel(), services.NewEmailChannel())

	// Services
	distributionService := services.NewDistributionService()
	calculationService := services.NewPayoutCalculationService(tipRepo, waiterRepo, distributionService)
	generationService := services.NewPayoutGenerationService(payoutRepo, waiterRepo)
	processingService := services.NewPayoutProcessingService(payoutRepo, waiterRepo, restaurantRepo, provider, notifier, calculationService)
	pooledTipService := services.NewPooledTipService(tipRepo, distributionRepo, distributionService)
	reportService := services.NewReportService(payoutRepo, restaurantRepo)

	// Handlers
	payoutHandler := handlers.NewPayoutHandler(calculationService, generationService, processingService, payoutRepo)
	distributionHandler := handlers.NewDistributionHandler(pooledTipService)
	callbackHandler := handlers.NewCallbackHandler(processingService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Change to your frontend URL in production
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, payoutHandler, distributionHandler, callbackHandler, reportHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
