package adapters

import (
	"context"

	"rentbook/internal/core"
	"rentbook/internal/services"
	"rentbook/internal/storage"
)

// LedgerAdapter composes the write service and the read service into the
// single surface the HTTP server consumes.
type LedgerAdapter struct {
	tenants storage.TenantStore
	writes  *services.RentBookService
	reads   *services.LedgerService
}

func NewLedgerAdapter(tenants storage.TenantStore, writes *services.RentBookService, reads *services.LedgerService) *LedgerAdapter {
	return &LedgerAdapter{
		tenants: tenants,
		writes:  writes,
		reads:   reads,
	}
}

func (a *LedgerAdapter) CreateTenant(ctx context.Context, t core.Tenant) (core.Tenant, error) {
	return a.writes.CreateTenant(ctx, t)
}

func (a *LedgerAdapter) RecordPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	return a.writes.RecordPayment(ctx, p)
}

func (a *LedgerAdapter) ListTenants(ctx context.Context) ([]core.Tenant, error) {
	return a.tenants.ListTenants(ctx)
}

func (a *LedgerAdapter) DashboardSummary(ctx context.Context) (core.DashboardSummary, error) {
	return a.reads.DashboardSummary(ctx)
}

func (a *LedgerAdapter) TenantHistory(ctx context.Context, tenantID string, ref *core.Month) (core.TenantHistory, error) {
	return a.reads.TenantHistory(ctx, tenantID, ref)
}
