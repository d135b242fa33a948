package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentbook/internal/core"
	"rentbook/internal/storage"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func seedTenant(t *testing.T, repo *storage.MemoryRepository, id string, rentCents int64, moveIn core.Date) core.Tenant {
	t.Helper()
	tenant := core.Tenant{
		ID:          id,
		Name:        "Tenant " + id,
		MonthlyRent: core.Money{Cents: rentCents},
		MoveInDate:  moveIn,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.CreateTenant(context.Background(), tenant); err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return tenant
}

func seedPayment(t *testing.T, repo *storage.MemoryRepository, id, tenantID string, cents int64, date core.Date) {
	t.Helper()
	err := repo.CreatePayment(context.Background(), core.Payment{
		ID:          id,
		TenantID:    tenantID,
		Amount:      core.Money{Cents: cents},
		PaymentDate: date,
		RecordedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed payment: %v", err)
	}
}

func TestDashboardSummary(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedTenant(t, repo, "t-1", 100000, core.NewDate(2024, time.January, 1))
	seedTenant(t, repo, "t-2", 150000, core.NewDate(2024, time.March, 10))
	seedPayment(t, repo, "p-1", "t-1", 100000, core.NewDate(2024, time.June, 1))

	svc := NewLedgerService(repo, repo, fixedClock(2024, time.June, 15))

	summary, err := svc.DashboardSummary(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.TotalTenants != 2 {
		t.Fatalf("total tenants = %d", summary.TotalTenants)
	}
	if summary.TotalExpectedRent.Cents != 250000 {
		t.Fatalf("expected rent = %d", summary.TotalExpectedRent.Cents)
	}
	if summary.TotalCollected.Cents != 100000 {
		t.Fatalf("collected = %d", summary.TotalCollected.Cents)
	}
	if summary.TotalPending.Cents != 150000 {
		t.Fatalf("pending = %d", summary.TotalPending.Cents)
	}
}

func TestTenantHistoryDefaultsToCurrentMonth(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedTenant(t, repo, "t-1", 100000, core.NewDate(2024, time.January, 15))
	seedPayment(t, repo, "p-1", "t-1", 60000, core.NewDate(2024, time.January, 20))
	seedPayment(t, repo, "p-2", "t-1", 100000, core.NewDate(2024, time.February, 5))

	svc := NewLedgerService(repo, repo, fixedClock(2024, time.February, 28))

	history, err := svc.TenantHistory(context.Background(), "t-1", nil)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.MonthlyDueStatus) != 2 {
		t.Fatalf("statuses = %d", len(history.MonthlyDueStatus))
	}
	if history.MonthlyDueStatus[0].PaidInFull {
		t.Fatalf("january should be short by 40000")
	}
	if !history.MonthlyDueStatus[1].PaidInFull {
		t.Fatalf("february should be paid in full")
	}
	if len(history.Payments) != 2 || history.Payments[0].ID != "p-2" {
		t.Fatalf("payments should be newest first: %+v", history.Payments)
	}
}

func TestTenantHistoryExplicitMonth(t *testing.T) {
	repo := storage.NewMemoryRepository()
	seedTenant(t, repo, "t-1", 100000, core.NewDate(2024, time.January, 15))

	svc := NewLedgerService(repo, repo, fixedClock(2024, time.June, 15))

	ref, err := core.ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	history, err := svc.TenantHistory(context.Background(), "t-1", &ref)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if got := len(history.MonthlyDueStatus); got != 3 {
		t.Fatalf("statuses for jan..mar = %d", got)
	}
}

func TestTenantHistoryUnknownTenant(t *testing.T) {
	repo := storage.NewMemoryRepository()
	svc := NewLedgerService(repo, repo, fixedClock(2024, time.June, 15))

	_, err := svc.TenantHistory(context.Background(), "missing", nil)
	if !errors.Is(err, core.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}
