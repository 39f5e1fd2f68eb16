package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// LeaseSigningInput is the input for the lease signing workflow.
type LeaseSigningInput struct {
	PropertyID int
	TenantID   string
	StartDate  time.Time
	EndDate    time.Time
}

// LeaseSigningWorkflow orchestrates checking availability, creating
// the lease, and confirming it to the tenant. If the confirmation
// fails, the lease is voided (saga rollback).
func LeaseSigningWorkflow(ctx workflow.Context, input LeaseSigningInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting lease signing workflow", "propertyID", input.PropertyID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Check the listing is free for the requested term
	var propertyName string
	err := workflow.ExecuteActivity(ctx, "CheckAvailability",
		input.PropertyID, input.StartDate, input.EndDate).Get(ctx, &propertyName)
	if err != nil {
		return err
	}

	// Step 2: Create the lease
	var leaseID int
	err = workflow.ExecuteActivity(ctx, "CreateLease",
		input.PropertyID, input.TenantID, input.StartDate, input.EndDate).Get(ctx, &leaseID)
	if err != nil {
		return err
	}

	// Step 3: Confirm to the tenant
	err = workflow.ExecuteActivity(ctx, "NotifyTenant",
		input.TenantID, propertyName, input.StartDate).Get(ctx, nil)
	if err != nil {
		logger.Warn("tenant confirmation failed, voiding lease", "error", err)
		// Rollback: void the lease
		_ = workflow.ExecuteActivity(ctx, "VoidLease", leaseID).Get(ctx, nil)
		return err
	}

	logger.Info("Lease signed", "leaseID", leaseID)
	return nil
}
