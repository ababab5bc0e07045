/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the budget planner server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load TOML configuration
  3. Open the SQLite store (plus the CSV mirror when enabled)
  4. Hydrate the session from storage (mirror fallback self-heals)
  5. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config path (default: budget.toml)
  -port    Overrides server.port from the config when > 0

EXAMPLES:
  ./server -config=./budget.toml
  ./server -port=3000
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/budget-engine/api"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/config"
	"github.com/warp/budget-engine/store/csvmirror"
	"github.com/warp/budget-engine/store/mirrored"
	"github.com/warp/budget-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "budget.toml", "TOML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	primary, err := sqlite.New(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer primary.Close()

	var store budget.Store = primary
	if cfg.Storage.Mirror {
		store = mirrored.New(primary, csvmirror.New(cfg.Storage.MirrorDir))
	}

	session := budget.NewSession(store)
	if err := session.Load(context.Background()); err != nil {
		log.Printf("Warning: failed to load stored data: %v", err)
	}
	if plan := session.Plan(); plan != nil {
		log.Printf("Active plan %s: %s, %d items", plan.ID, plan.Period, len(plan.Items))
	}

	handler := api.NewHandler(session)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
