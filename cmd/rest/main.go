package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accio-playground-be/internal/bootstrap"
	"accio-playground-be/internal/config"
	"accio-playground-be/internal/server"
	"accio-playground-be/internal/tracer"
	"accio-playground-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Telemetry)

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// 5. Start Background Services
	bgCtx, stopBackground := context.WithCancel(context.Background())
	if err := container.Start(bgCtx); err != nil {
		log.Fatalf("Failed to start background services: %v", err)
	}

	// 6. Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// In-flight turns finish before the bus and the pool go away.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}
	stopBackground()
	container.Close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("Failed to flush traces: %v", err)
	}
	if err := database.Close(gormDB); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("Server stopped")
}
