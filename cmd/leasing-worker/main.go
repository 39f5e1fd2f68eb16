package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/rentloop/rentloop/internal/adapters/nats"
	"github.com/rentloop/rentloop/internal/adapters/postgres"
	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/core/usecases"
	"github.com/rentloop/rentloop/internal/pkg/config"
	"github.com/rentloop/rentloop/internal/workflows"
)

func main() {
	cfg, err := config.Load("rentloop-leasing-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var events ports.EventPublisher
	if nc, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		log.Printf("nats unavailable: %v", err)
	} else {
		defer nc.Close()
		events = nc
	}

	propertyRepo := postgres.NewPropertyRepo(db)
	leaseRepo := postgres.NewLeaseRepo(db)
	leaseSvc := usecases.NewLeaseService(leaseRepo, propertyRepo, events, nil)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: cfg.Temporal.HostPort,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.LeaseSigningWorkflow)
	w.RegisterActivity(&workflows.LeasingActivities{
		Leases:     leaseSvc,
		Properties: propertyRepo,
	})

	log.Println("leasing worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
