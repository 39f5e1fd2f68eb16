package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/ports"
)

// LeaseService handles lease creation and lookup.
type LeaseService struct {
	leases   ports.LeaseRepository
	props    ports.PropertyRepository
	events   ports.EventPublisher
	notifier ports.NotificationService
}

// NewLeaseService creates a new LeaseService.
func NewLeaseService(leases ports.LeaseRepository, props ports.PropertyRepository, events ports.EventPublisher, notifier ports.NotificationService) *LeaseService {
	return &LeaseService{leases: leases, props: props, events: events, notifier: notifier}
}

// ListByProperty returns every lease on a property.
func (s *LeaseService) ListByProperty(ctx context.Context, propertyID int) ([]domain.Lease, error) {
	return s.leases.ListByProperty(ctx, propertyID)
}

// SignLease creates a lease for the tenant at the property's current
// terms and notifies the tenant (best-effort).
func (s *LeaseService) SignLease(ctx context.Context, propertyID int, tenantID string, start, end time.Time) (*domain.Lease, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	if !end.After(start) {
		return nil, fmt.Errorf("lease end must be after start")
	}

	prop, err := s.props.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("property %d: %w", propertyID, err)
	}

	lease := &domain.Lease{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Rent:       prop.PricePerMonth,
		Deposit:    prop.SecurityDeposit,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.leases.Create(ctx, lease); err != nil {
		return nil, fmt.Errorf("create lease: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishLeaseSigned(ctx, lease); err != nil {
			slog.Warn("publish lease signed", "lease_id", lease.ID, "error", err)
		}
	}

	if s.notifier != nil {
		title := "Lease signed"
		body := fmt.Sprintf("Your lease at %s starts %s.", prop.Name, start.Format("2006-01-02"))
		_ = s.notifier.SendPush(ctx, tenantID, title, body)
	}

	return lease, nil
}

// VoidLease removes a lease that never took effect.
func (s *LeaseService) VoidLease(ctx context.Context, id int) error {
	return s.leases.Void(ctx, id)
}
