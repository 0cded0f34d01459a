package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashscroll-backend/internal/config"
	"flashscroll-backend/internal/database"
	"flashscroll-backend/internal/handlers"
	"flashscroll-backend/internal/jobs"
	"flashscroll-backend/internal/repository"
	"flashscroll-backend/internal/router"
	"flashscroll-backend/internal/services"
	"flashscroll-backend/internal/session"
	"flashscroll-backend/internal/store"
	"flashscroll-backend/internal/websocket"
	"flashscroll-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting FlashScroll Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		log.Fatalf("✗ Failed to create upload directory: %v", err)
	}

	// ──── Step 3: Load Deck Collection ────
	deckStore := store.NewRedisStore(redisClients.Store)
	deckRepo := repository.NewDeckRepo(context.Background(), deckStore)
	log.Printf("✓ Deck collection loaded (%d decks)", len(deckRepo.Decks()))

	// ──── Step 4: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	publisher := websocket.NewPublisher(redisClients.Store)
	controller := session.NewController(deckRepo, publisher)
	jobStore := jobs.NewStore(redisClients.Store)
	fileExtractService := services.NewFileExtractService()

	// ──── Initialize Handlers ────
	deckHandler := handlers.NewDeckHandler(deckRepo, controller)
	sessionHandler := handlers.NewSessionHandler(controller)
	importHandler := handlers.NewImportHandler(deckRepo, controller)
	generateHandler := handlers.NewGenerateHandler(jobStore, controller, fileExtractService, cfg.StoragePath)

	// ──── Step 5: Start Generation Worker Pool ────
	workerPool := worker.NewPool(jobStore, geminiService, deckRepo, publisher, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		deckHandler,
		sessionHandler,
		importHandler,
		generateHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FlashScroll Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
