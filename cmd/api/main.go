package main

import (
	"context"
	"log"
	"os"

	"github.com/atolyem/marketplace-backend/internal/config"
	"github.com/atolyem/marketplace-backend/internal/db"
	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/server"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/atolyem/marketplace-backend/internal/storage"
	"github.com/joho/godotenv"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	var store service.ObjectStore
	if cfg.StorageBucket != "" {
		gcs, err := storage.NewClient(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		defer gcs.Close()
		store = gcs
	} else {
		log.Printf("STORAGE_BUCKET not set; digital delivery endpoints will fail")
	}

	srv := server.New(nil, store, cfg.Rules(), gitSHA, buildTime)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	addr := ":" + port

	errCh := make(chan error, 1)

	go func() {
		log.Printf("starting server on %s", addr)
		errCh <- srv.Start(addr)
	}()

	// Connect asynchronously so cold starts answer health checks before the
	// database is up. Handlers return a retryable error until SetDB runs.
	go func() {
		conn, err := db.Connect(cfg)
		if err != nil {
			log.Printf("db connect error: %v", err)
			return
		}
		srv.SetDB(conn)
		if err := conn.AutoMigrate(
			&model.User{},
			&model.Shop{},
			&model.ShippingRule{},
			&model.Listing{},
			&model.ListingVariant{},
			&model.ListingAccess{},
			&model.PersonalizationField{},
			&model.Tag{},
			&model.ListingTag{},
			&model.CartItem{},
			&model.Order{},
			&model.OrderItem{},
			&model.DigitalDelivery{},
			&model.Review{},
			&model.Favorite{},
			&model.Follow{},
		); err != nil {
			log.Printf("auto migrate error: %v", err)
		}
	}()

	if err := <-errCh; err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
