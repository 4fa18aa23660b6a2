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

	"github.com/callcentersim/callsim/internal/agent"
	"github.com/callcentersim/callsim/internal/config"
	"github.com/callcentersim/callsim/internal/hub"
	"github.com/callcentersim/callsim/internal/sentiment"
	"github.com/callcentersim/callsim/internal/service"
	"github.com/callcentersim/callsim/internal/store"
	transport "github.com/callcentersim/callsim/internal/transport/http"
	"github.com/callcentersim/callsim/internal/transport/ws"
	"github.com/callcentersim/callsim/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting call simulator...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabasePath)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize response generator
	generator := agent.NewResponseGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)

	// Initialize sentiment scorer
	scorer := sentiment.NewLexiconScorer()

	// Initialize transfer-routing policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize event hub
	eventHub := hub.NewHub()
	go eventHub.Run()

	// Initialize service
	svc := service.New(db, generator, scorer, policyEngine, eventHub, cfg)

	// Create API server
	wsServer := ws.NewServer(eventHub)
	server := transport.NewServer(svc, wsServer)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down call simulator...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Call simulator stopped")
}
