package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rentbook/internal/core"
	"rentbook/internal/storage"
)

// LedgerService answers the read-side questions: dashboard totals and
// per-tenant histories. It loads a snapshot from the store and hands it
// to the pure ledger functions.
type LedgerService struct {
	tenants  storage.TenantStore
	payments storage.PaymentStore
	now      func() time.Time
}

// NewLedgerService builds the read service. A nil clock means time.Now.
func NewLedgerService(tenants storage.TenantStore, payments storage.PaymentStore, now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{
		tenants:  tenants,
		payments: payments,
		now:      now,
	}
}

// DashboardSummary computes the landlord dashboard for the current month.
func (s *LedgerService) DashboardSummary(ctx context.Context) (core.DashboardSummary, error) {
	var (
		tenants  []core.Tenant
		payments []core.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tenants, err = s.tenants.ListTenants(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.payments.ListPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.DashboardSummary{}, fmt.Errorf("load dashboard snapshot: %w", err)
	}

	return core.ComputeDashboardSummary(tenants, payments, core.MonthOf(s.now())), nil
}

// TenantHistory computes the ledger for one tenant. A nil ref means the
// current month. Unknown ids surface core.ErrTenantNotFound.
func (s *LedgerService) TenantHistory(ctx context.Context, tenantID string, ref *core.Month) (core.TenantHistory, error) {
	var (
		tenant   core.Tenant
		payments []core.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tenant, err = s.tenants.GetTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.payments.ListTenantPayments(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.TenantHistory{}, err
	}

	month := core.MonthOf(s.now())
	if ref != nil {
		month = *ref
	}
	return core.ComputeTenantHistory(tenant, payments, month), nil
}
