package main

import (
	"context"
	"log"

	"ship-consultant-be/internal/bootstrap"
	"ship-consultant-be/internal/config"
	"ship-consultant-be/internal/server"
	"ship-consultant-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer - DISABLED
	// shutdownTracer := tracer.InitTracer()
	// defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Warm the in-memory catalog index from the database
	if loaded, err := container.ShipService.LoadIndex(context.Background()); err != nil {
		log.Printf("Warning: catalog index warm-up failed: %v", err)
	} else {
		log.Printf("Catalog index warmed with %d ships", loaded)
	}

	// 5. Start Background Services
	// Note: In a larger app, we might use an errgroup or supervisor here
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	container.ConsultantService.StartSweeper(context.Background())

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
