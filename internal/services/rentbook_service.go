package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rentbook/internal/core"
	"rentbook/internal/storage"
)

// PaymentSyncPublisher is the slice of the AMQP client the write path needs.
type PaymentSyncPublisher interface {
	PublishPaymentSync(ctx context.Context, paymentID string) error
}

// RentBookService orchestrates tenant and payment writes across the
// store and AMQP.
type RentBookService struct {
	tenants   storage.TenantStore
	payments  storage.PaymentStore
	publisher PaymentSyncPublisher
}

func NewRentBookService(tenants storage.TenantStore, payments storage.PaymentStore, publisher PaymentSyncPublisher) *RentBookService {
	return &RentBookService{
		tenants:   tenants,
		payments:  payments,
		publisher: publisher,
	}
}

// CreateTenant validates and persists a new tenant, assigning its id.
func (s *RentBookService) CreateTenant(ctx context.Context, t core.Tenant) (core.Tenant, error) {
	if err := t.Validate(); err != nil {
		return core.Tenant{}, err
	}

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	if err := s.tenants.CreateTenant(ctx, t); err != nil {
		return core.Tenant{}, fmt.Errorf("save tenant: %w", err)
	}

	slog.InfoContext(ctx, "Tenant created", "tenant_id", t.ID, "name", t.Name)
	return t, nil
}

// RecordPayment saves a payment locally and publishes a sync message.
// The tenant must exist; publishing is best effort and never fails the
// request once the payment is stored.
func (s *RentBookService) RecordPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	if _, err := s.tenants.GetTenant(ctx, p.TenantID); err != nil {
		return core.Payment{}, err
	}

	p.ID = uuid.NewString()
	p.RecordedAt = time.Now().UTC()

	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return core.Payment{}, fmt.Errorf("save payment: %w", err)
	}

	if err := s.publishSyncMessage(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"payment_id", p.ID, "error", err)
		// Don't fail the request, the payment is saved locally and the
		// backlog scan will pick it up.
	}

	slog.InfoContext(ctx, "Payment recorded",
		"payment_id", p.ID, "tenant_id", p.TenantID, "amount_cents", p.Amount.Cents)
	return p, nil
}

func (s *RentBookService) publishSyncMessage(ctx context.Context, paymentID string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishPaymentSync(ctx, paymentID)
}

// Close closes the store and publisher when they hold connections.
func (s *RentBookService) Close() error {
	var errs []error

	if c, ok := s.tenants.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok && s.publisher != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close rentbook service: %v", errs)
	}
	return nil
}
