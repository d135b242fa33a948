package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentbook/internal/amqp"
	"rentbook/internal/core"
	"rentbook/internal/storage"
)

// DueNoticePublisher is the slice of the AMQP client the notice scan needs.
type DueNoticePublisher interface {
	PublishDueNotice(ctx context.Context, msg *amqp.DueNoticeMessage) error
}

// NoticeProcessor scans all tenants and publishes a due notice for every
// tenant whose current month is not paid in full.
type NoticeProcessor struct {
	tenants   storage.TenantStore
	payments  storage.PaymentStore
	publisher DueNoticePublisher
	now       func() time.Time
}

func NewNoticeProcessor(tenants storage.TenantStore, payments storage.PaymentStore, publisher DueNoticePublisher, now func() time.Time) *NoticeProcessor {
	if now == nil {
		now = time.Now
	}
	return &NoticeProcessor{
		tenants:   tenants,
		payments:  payments,
		publisher: publisher,
		now:       now,
	}
}

// Run performs one scan. Publish failures are logged per tenant and
// reported once at the end so one bad notice does not stop the sweep.
func (p *NoticeProcessor) Run(ctx context.Context) error {
	month := core.MonthOf(p.now())

	tenants, err := p.tenants.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	var published, failed int
	for _, tenant := range tenants {
		payments, err := p.payments.ListTenantPayments(ctx, tenant.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load payments for notice scan",
				"tenant_id", tenant.ID, "error", err)
			failed++
			continue
		}

		history := core.ComputeTenantHistory(tenant, payments, month)
		if len(history.MonthlyDueStatus) == 0 {
			// Tenant moves in after the reference month, nothing is due yet.
			continue
		}

		current := history.MonthlyDueStatus[len(history.MonthlyDueStatus)-1]
		if current.PaidInFull {
			continue
		}

		msg := &amqp.DueNoticeMessage{
			TenantID:     tenant.ID,
			TenantName:   tenant.Name,
			Month:        month.String(),
			PendingCents: current.PendingAmount.Cents,
			Timestamp:    p.now().UTC(),
		}
		if err := p.publisher.PublishDueNotice(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish due notice",
				"tenant_id", tenant.ID, "error", err)
			failed++
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Notice scan complete",
		"month", month.String(), "tenants", len(tenants),
		"published", published, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("notice scan: %d of %d tenants failed", failed, len(tenants))
	}
	return nil
}
