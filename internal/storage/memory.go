package storage

import (
	"context"
	"sync"

	"rentbook/internal/core"
)

// MemoryRepository is the default backend for local development and
// tests: plain slices behind a mutex, no durability. It satisfies the
// same ports as the SQLite repository.
type MemoryRepository struct {
	mu       sync.Mutex
	tenants  []core.Tenant
	payments []core.Payment
	pending  map[string]bool // payment id -> awaiting export
}

var (
	_ TenantStore  = (*MemoryRepository)(nil)
	_ PaymentStore = (*MemoryRepository)(nil)
	_ SyncQueue    = (*MemoryRepository)(nil)
)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pending: make(map[string]bool)}
}

func (r *MemoryRepository) CreateTenant(_ context.Context, t core.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants = append(r.tenants, t)
	return nil
}

func (r *MemoryRepository) GetTenant(_ context.Context, id string) (core.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Tenant{}, core.ErrTenantNotFound
}

func (r *MemoryRepository) ListTenants(_ context.Context) ([]core.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Tenant(nil), r.tenants...), nil
}

func (r *MemoryRepository) CreatePayment(_ context.Context, p core.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, p)
	r.pending[p.ID] = true
	return nil
}

func (r *MemoryRepository) GetPayment(_ context.Context, id string) (core.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Payment{}, core.ErrPaymentNotFound
}

func (r *MemoryRepository) ListPayments(_ context.Context) ([]core.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Payment(nil), r.payments...), nil
}

func (r *MemoryRepository) ListTenantPayments(_ context.Context, tenantID string) ([]core.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Payment
	for _, p := range r.payments {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) GetPendingSyncPayments(_ context.Context, limit int) ([]PendingSyncPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PendingSyncPayment
	// Preserve recording order by walking the payment slice.
	for _, p := range r.payments {
		if len(out) >= limit {
			break
		}
		if r.pending[p.ID] {
			out = append(out, PendingSyncPayment{ID: p.ID, RecordedAt: p.RecordedAt})
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkSynced(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	return nil
}

func (r *MemoryRepository) MarkSyncError(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
	return nil
}
