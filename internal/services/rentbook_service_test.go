package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentbook/internal/core"
	"rentbook/internal/storage"
)

type fakeSyncPublisher struct {
	published []string
	err       error
}

func (f *fakeSyncPublisher) PublishPaymentSync(_ context.Context, paymentID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, paymentID)
	return nil
}

func newTestTenant() core.Tenant {
	return core.Tenant{
		Name:        "Alice Smith",
		MonthlyRent: core.Money{Cents: 100000},
		MoveInDate:  core.NewDate(2024, time.January, 15),
	}
}

func TestCreateTenantAssignsID(t *testing.T) {
	repo := storage.NewMemoryRepository()
	svc := NewRentBookService(repo, repo, nil)

	created, err := svc.CreateTenant(context.Background(), newTestTenant())
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected assigned created_at")
	}

	got, err := repo.GetTenant(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get tenant: %v", err)
	}
	if got.Name != "Alice Smith" {
		t.Fatalf("persisted name = %q", got.Name)
	}
}

func TestCreateTenantRejectsInvalid(t *testing.T) {
	repo := storage.NewMemoryRepository()
	svc := NewRentBookService(repo, repo, nil)

	bad := newTestTenant()
	bad.Name = "  "
	if _, err := svc.CreateTenant(context.Background(), bad); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}

	bad = newTestTenant()
	bad.MonthlyRent = core.Money{Cents: -1}
	if _, err := svc.CreateTenant(context.Background(), bad); !errors.Is(err, core.ErrNegativeRent) {
		t.Fatalf("expected ErrNegativeRent, got %v", err)
	}
}

func TestRecordPaymentPublishesSync(t *testing.T) {
	repo := storage.NewMemoryRepository()
	pub := &fakeSyncPublisher{}
	svc := NewRentBookService(repo, repo, pub)

	tenant, err := svc.CreateTenant(context.Background(), newTestTenant())
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	payment, err := svc.RecordPayment(context.Background(), core.Payment{
		TenantID:    tenant.ID,
		Amount:      core.Money{Cents: 60000},
		PaymentDate: core.NewDate(2024, time.January, 20),
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if payment.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if len(pub.published) != 1 || pub.published[0] != payment.ID {
		t.Fatalf("published = %v", pub.published)
	}
}

func TestRecordPaymentUnknownTenant(t *testing.T) {
	repo := storage.NewMemoryRepository()
	svc := NewRentBookService(repo, repo, &fakeSyncPublisher{})

	_, err := svc.RecordPayment(context.Background(), core.Payment{
		TenantID:    "missing",
		Amount:      core.Money{Cents: 60000},
		PaymentDate: core.NewDate(2024, time.January, 20),
	})
	if !errors.Is(err, core.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestRecordPaymentSurvivesPublishFailure(t *testing.T) {
	repo := storage.NewMemoryRepository()
	pub := &fakeSyncPublisher{err: errors.New("broker down")}
	svc := NewRentBookService(repo, repo, pub)

	tenant, err := svc.CreateTenant(context.Background(), newTestTenant())
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	payment, err := svc.RecordPayment(context.Background(), core.Payment{
		TenantID:    tenant.ID,
		Amount:      core.Money{Cents: 60000},
		PaymentDate: core.NewDate(2024, time.January, 20),
	})
	if err != nil {
		t.Fatalf("record payment should not fail on publish error: %v", err)
	}

	if _, err := repo.GetPayment(context.Background(), payment.ID); err != nil {
		t.Fatalf("payment must be stored: %v", err)
	}
}
