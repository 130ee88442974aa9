package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rmf-policy-be/internal/bootstrap"
	"rmf-policy-be/internal/config"
	"rmf-policy-be/internal/server"
	"rmf-policy-be/internal/tracer"
	"rmf-policy-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database (optional, pgvector corpus + transcripts)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg, gormDB)
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(ctx, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	if err := container.Start(ctx); err != nil {
		log.Fatalf("Background services failed: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
