package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/propmatch/internal/handlers"
	"github.com/oguzk/propmatch/internal/repositories"
	"github.com/oguzk/propmatch/internal/services"
	"github.com/oguzk/propmatch/internal/workers"
	"github.com/oguzk/propmatch/pkg/config"
	"github.com/oguzk/propmatch/pkg/database"
	"github.com/oguzk/propmatch/pkg/logger"
)

func main() {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()

	// Initialize database
	if err := database.Init(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Row stores
	clientRepo := repositories.NewClientRepository(database.DB)
	ownerRepo := repositories.NewOwnerRepository(database.DB)
	viewingRepo := repositories.NewViewingRepository(database.DB)

	// External adapters
	mailbox := services.NewMailboxService()
	extractor := services.NewExtractionService()

	// Core services
	matcher := services.NewMatcherService(clientRepo, ownerRepo)
	viewingService := services.NewViewingService(viewingRepo, clientRepo, ownerRepo, mailbox)
	engine := services.NewNegotiationService(clientRepo, ownerRepo, viewingRepo, matcher, viewingService, mailbox)
	assistant := services.NewAssistantService(
		mailbox, extractor, engine, viewingService, clientRepo, ownerRepo,
		config.AppConfig.Assistant.MaxEmailsPerRun,
		time.Duration(config.AppConfig.Assistant.MaxRunSeconds)*time.Second,
	)
	exportService := services.NewExportService(clientRepo, ownerRepo, viewingRepo)

	// Initialize worker manager
	workerManager := workers.NewWorkerManager(assistant)

	// Initialize router
	router := gin.Default()
	setupRoutes(router, clientRepo, ownerRepo, viewingRepo, assistant, exportService)

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}
	defer workerManager.StopAll()

	// Setup server
	server := &http.Server{
		Addr:    ":" + config.AppConfig.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", config.AppConfig.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}

func setupRoutes(
	router *gin.Engine,
	clientRepo *repositories.ClientRepository,
	ownerRepo *repositories.OwnerRepository,
	viewingRepo *repositories.ViewingRepository,
	assistant *services.AssistantService,
	exportService *services.ExportService,
) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	directoryHandler := handlers.NewDirectoryHandler(clientRepo, ownerRepo, viewingRepo)
	assistantHandler := handlers.NewAssistantHandler(assistant, exportService)

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	// Directory and ledger views
	router.GET("/clients", directoryHandler.ListClients)
	router.GET("/owners", directoryHandler.ListOwners)
	router.GET("/viewings", directoryHandler.ListViewings)

	// Assistant operations
	router.POST("/run", assistantHandler.RunNow)
	router.GET("/export", assistantHandler.Export)
}
