package workflows

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/core/usecases"
)

// LeasingActivities holds the activity implementations for the lease
// signing workflow.
type LeasingActivities struct {
	Leases     *usecases.LeaseService
	Properties ports.PropertyRepository
	Notifier   ports.NotificationService
}

// CheckAvailability verifies the listing exists and has no lease
// overlapping the requested term.
func (a *LeasingActivities) CheckAvailability(ctx context.Context, propertyID int, start, end time.Time) (string, error) {
	prop, err := a.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return "", fmt.Errorf("property %d: %w", propertyID, err)
	}

	leases, err := a.Leases.ListByProperty(ctx, propertyID)
	if err != nil {
		return "", fmt.Errorf("list leases: %w", err)
	}
	for _, l := range leases {
		if l.StartDate.Before(end) && l.EndDate.After(start) {
			return "", fmt.Errorf("property %d already leased %s to %s",
				propertyID, l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"))
		}
	}
	return prop.Name, nil
}

// CreateLease signs the lease at the listing's current terms and
// returns the lease id.
func (a *LeasingActivities) CreateLease(ctx context.Context, propertyID int, tenantID string, start, end time.Time) (int, error) {
	lease, err := a.Leases.SignLease(ctx, propertyID, tenantID, start, end)
	if err != nil {
		return 0, err
	}
	return lease.ID, nil
}

// NotifyTenant confirms the signed lease to the tenant.
func (a *LeasingActivities) NotifyTenant(ctx context.Context, tenantID, propertyName string, start time.Time) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → tenant=%s property=%s", tenantID, propertyName)
		return nil
	}
	title := "Your new home is confirmed"
	body := fmt.Sprintf("Your lease at %s starts %s.", propertyName, start.Format("2006-01-02"))
	return a.Notifier.SendPush(ctx, tenantID, title, body)
}

// VoidLease removes a lease that never took effect (saga rollback).
func (a *LeasingActivities) VoidLease(ctx context.Context, leaseID int) error {
	if err := a.Leases.VoidLease(ctx, leaseID); err != nil {
		return fmt.Errorf("void lease %d: %w", leaseID, err)
	}
	log.Printf("Lease %d voided (saga rollback)", leaseID)
	return nil
}
