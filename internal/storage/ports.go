package storage

import (
	"context"
	"time"

	"rentbook/internal/core"
)

// Ports for the persistence backends. The ledger core never sees these;
// services load snapshots through them and hand plain slices to the core.
type (
	TenantStore interface {
		CreateTenant(ctx context.Context, t core.Tenant) error
		// GetTenant returns core.ErrTenantNotFound for an unknown id.
		GetTenant(ctx context.Context, id string) (core.Tenant, error)
		ListTenants(ctx context.Context) ([]core.Tenant, error)
	}

	PaymentStore interface {
		CreatePayment(ctx context.Context, p core.Payment) error
		GetPayment(ctx context.Context, id string) (core.Payment, error)
		ListPayments(ctx context.Context) ([]core.Payment, error)
		ListTenantPayments(ctx context.Context, tenantID string) ([]core.Payment, error)
	}

	// SyncQueue tracks which payments still need to be exported to the
	// sheets ledger. The AMQP message is the fast path; this is the
	// backlog the worker falls back to.
	SyncQueue interface {
		GetPendingSyncPayments(ctx context.Context, limit int) ([]PendingSyncPayment, error)
		MarkSynced(ctx context.Context, id string) error
		MarkSyncError(ctx context.Context, id string) error
	}
)

// PendingSyncPayment is the minimal row the worker needs to pick up a
// payment for export; it fetches the full record afterwards.
type PendingSyncPayment struct {
	ID         string
	RecordedAt time.Time
}
