package worker

import (
	"context"
	"fmt"
	"log/slog"

	"rentbook/internal/amqp"
	"rentbook/internal/sheets"
	"rentbook/internal/storage"
)

// SyncStore is the slice of the repository the worker needs.
type SyncStore interface {
	storage.TenantStore
	storage.PaymentStore
	storage.SyncQueue
}

// SyncWorker exports payments from the local store to the sheets ledger.
// AMQP messages are the fast path; the pending-sync backlog in the store
// covers messages lost while the worker was down.
type SyncWorker struct {
	store     SyncStore
	exporter  sheets.LedgerExporter
	batchSize int
}

func NewSyncWorker(store SyncStore, exporter sheets.LedgerExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandlePaymentSync processes a single payment sync message from AMQP.
// Returning an error requeues the message.
func (w *SyncWorker) HandlePaymentSync(ctx context.Context, msg *amqp.PaymentSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "payment_id", msg.PaymentID)

	if err := w.syncPayment(ctx, msg.PaymentID); err != nil {
		return fmt.Errorf("sync payment %s: %w", msg.PaymentID, err)
	}
	return nil
}

// syncPayment exports one payment and records the outcome in the store.
func (w *SyncWorker) syncPayment(ctx context.Context, paymentID string) error {
	payment, err := w.store.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("get payment: %w", err)
	}

	tenant, err := w.store.GetTenant(ctx, payment.TenantID)
	if err != nil {
		return fmt.Errorf("get tenant: %w", err)
	}

	ref, err := w.exporter.AppendPayment(ctx, tenant, payment)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, paymentID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"payment_id", paymentID, "error", markErr)
		}
		return fmt.Errorf("append payment row: %w", err)
	}

	if err := w.store.MarkSynced(ctx, paymentID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Payment exported to ledger",
		"payment_id", paymentID, "tenant_id", tenant.ID, "sheets_ref", ref)
	return nil
}

// ProcessPendingPayments exports any payments that haven't been synced
// yet. This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingPayments(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncPayments(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending payments: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending payments", "count", len(pending))

	for _, p := range pending {
		if err := w.syncPayment(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync payment", "payment_id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the backlog once at worker startup with a
// larger batch, recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncPayments(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending payments for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending payments found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending payments on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, p := range pending {
		if err := w.syncPayment(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync payment during startup",
				"payment_id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}
