package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/rentloop/rentloop/internal/adapters/postgres"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/pkg/config"
)

// seedListing is one entry in the seed file.
type seedListing struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	PricePerMonth   int     `json:"price_per_month"`
	SecurityDeposit int     `json:"security_deposit"`
	Beds            int     `json:"beds"`
	Baths           float64 `json:"baths"`
	SquareFeet      int     `json:"square_feet"`
	PropertyType    string  `json:"property_type"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
	ManagerID       string  `json:"manager_id"`
}

func main() {
	cfg, err := config.Load("rentloop-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	seedPath := "seed/listings.json"
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatalf("read seed file: %v", err)
	}

	var listings []seedListing
	if err := json.Unmarshal(data, &listings); err != nil {
		log.Fatalf("parse seed file: %v", err)
	}
	if len(listings) == 0 {
		log.Fatal("seed file is empty")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	props := make([]domain.Property, 0, len(listings))
	skipped := 0
	for _, l := range listings {
		if l.Name == "" || l.PricePerMonth <= 0 || !domain.ValidPropertyType(l.PropertyType) {
			skipped++
			continue
		}
		props = append(props, domain.Property{
			Name:            l.Name,
			Description:     l.Description,
			PricePerMonth:   l.PricePerMonth,
			SecurityDeposit: l.SecurityDeposit,
			Beds:            l.Beds,
			Baths:           l.Baths,
			SquareFeet:      l.SquareFeet,
			PropertyType:    l.PropertyType,
			Location:        domain.GeoPoint{Lat: l.Lat, Lon: l.Lon},
			Address:         l.Address,
			City:            l.City,
			ManagerID:       l.ManagerID,
			PostedAt:        time.Now(),
		})
	}

	repo := postgres.NewPropertyRepo(db)
	if err := repo.CreateBatch(ctx, props); err != nil {
		log.Fatalf("seed listings: %v", err)
	}

	log.Printf("seeded %d listings (%d skipped)", len(props), skipped)
}
