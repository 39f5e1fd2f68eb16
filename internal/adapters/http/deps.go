package http

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rentloop/rentloop/internal/adapters/postgres"
	"github.com/rentloop/rentloop/internal/adapters/valkey"
	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Properties *usecases.PropertyService
	Tenants    *usecases.TenantService
	Leases     *usecases.LeaseService
	Geocoder   ports.Geocoder
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache

	// SyncWindow is the client filter sync debounce window.
	SyncWindow time.Duration

	// SearchRadius is the geo search radius in meters. Zero falls back
	// to the compiler default.
	SearchRadius float64
}
