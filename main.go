package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/asta05/clinic-order-system/internal/api"
	"github.com/asta05/clinic-order-system/internal/config"
	"github.com/asta05/clinic-order-system/internal/database"
	"github.com/asta05/clinic-order-system/internal/migrations"
	"github.com/asta05/clinic-order-system/internal/seed"
	"github.com/asta05/clinic-order-system/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.SyncTablets(db)

	handler := api.New(store.New(db), cfg)

	log.Printf("clinic order server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
