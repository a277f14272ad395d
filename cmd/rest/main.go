package main

import (
	"context"
	"log"

	"marketmind-be/internal/bootstrap"
	"marketmind-be/internal/config"
	"marketmind-be/internal/model"
	"marketmind-be/internal/server"
	"marketmind-be/internal/tracer"
	"marketmind-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional; memory store without it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := gormDB.AutoMigrate(&model.ChatSession{}); err != nil {
			log.Panicf("Unable to migrate chat_sessions: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Usage Consumer Service...")
		if err := container.UsageConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Usage Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
