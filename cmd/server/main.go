package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shoplens/backend/config"
	httpDelivery "github.com/shoplens/backend/internal/delivery/http"
	"github.com/shoplens/backend/internal/infrastructure/gemini"
	"github.com/shoplens/backend/internal/infrastructure/session"
	"github.com/shoplens/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShopLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Model: %s", cfg.Gemini.Model)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer geminiClient.Close()

	if geminiClient.Configured() {
		log.Printf("Gemini API configured (key: %s...)", cfg.Gemini.APIKey[:min(8, len(cfg.Gemini.APIKey))])
	} else {
		log.Printf("WARNING: Gemini API key NOT CONFIGURED - model calls will fail!")
	}

	sessionStore := session.NewMemoryStore()
	log.Printf("Session TTL: %s", cfg.Session.TTL)

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		geminiClient,
		sessionStore,
		usecase.AnalysisServiceConfig{
			SessionTTL:       cfg.Session.TTL,
			MaxImageBytes:    cfg.Upload.MaxImageBytes,
			AllowedMimeTypes: cfg.Upload.AllowedMimeTypes,
		},
	)
	chatService := usecase.NewChatService(sessionStore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService, chatService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
