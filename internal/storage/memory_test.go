package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentbook/internal/core"
)

func TestMemoryRepositoryTenants(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	tenant := core.Tenant{
		ID:          "t-1",
		Name:        "Alice Smith",
		MonthlyRent: core.Money{Cents: 120000},
		MoveInDate:  core.NewDate(2024, time.January, 15),
	}
	if err := repo.CreateTenant(ctx, tenant); err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	got, err := repo.GetTenant(ctx, "t-1")
	if err != nil || got.Name != "Alice Smith" {
		t.Fatalf("get tenant = %+v, %v", got, err)
	}

	if _, err := repo.GetTenant(ctx, "missing"); !errors.Is(err, core.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}

	list, err := repo.ListTenants(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list tenants = %d, %v", len(list), err)
	}

	// Invalid tenants never make it into the store.
	bad := tenant
	bad.ID = "t-2"
	bad.MonthlyRent = core.Money{Cents: -1}
	if err := repo.CreateTenant(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestMemoryRepositoryPaymentsAndSyncQueue(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i, id := range []string{"p-1", "p-2"} {
		p := core.Payment{
			ID:          id,
			TenantID:    "t-1",
			Amount:      core.Money{Cents: 50000},
			PaymentDate: core.NewDate(2024, time.June, 1+i),
			RecordedAt:  time.Date(2024, time.June, 1+i, 12, 0, 0, 0, time.UTC),
		}
		if err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatalf("create payment %s: %v", id, err)
		}
	}

	byTenant, err := repo.ListTenantPayments(ctx, "t-1")
	if err != nil || len(byTenant) != 2 {
		t.Fatalf("list tenant payments = %d, %v", len(byTenant), err)
	}
	if other, _ := repo.ListTenantPayments(ctx, "t-2"); len(other) != 0 {
		t.Fatalf("unexpected payments for other tenant: %d", len(other))
	}

	pending, err := repo.GetPendingSyncPayments(ctx, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("pending = %d, %v", len(pending), err)
	}
	if pending[0].ID != "p-1" {
		t.Fatalf("pending order wrong: %+v", pending)
	}

	if err := repo.MarkSynced(ctx, "p-1"); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, _ = repo.GetPendingSyncPayments(ctx, 10)
	if len(pending) != 1 || pending[0].ID != "p-2" {
		t.Fatalf("pending after sync = %+v", pending)
	}

	if _, err := repo.GetPayment(ctx, "missing"); !errors.Is(err, core.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestMemoryRepositoryPendingLimit(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, id := range []string{"p-1", "p-2", "p-3"} {
		p := core.Payment{ID: id, TenantID: "t-1", Amount: core.Money{Cents: 100}, PaymentDate: core.NewDate(2024, time.June, 1)}
		if err := repo.CreatePayment(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	pending, err := repo.GetPendingSyncPayments(ctx, 2)
	if err != nil || len(pending) != 2 {
		t.Fatalf("limited pending = %d, %v", len(pending), err)
	}
}
