package main

import (
	"context"
	"log"

	"discharge-assist-be/internal/bootstrap"
	"discharge-assist-be/internal/config"
	"discharge-assist-be/internal/server"
	"discharge-assist-be/internal/tracer"
	"discharge-assist-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	// No DSN means in-memory storage; useful for local demos and tests.
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer func() {
		_ = container.Logger.Sync()
		if container.NatsPublisher != nil {
			container.NatsPublisher.Close()
		}
	}()

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
