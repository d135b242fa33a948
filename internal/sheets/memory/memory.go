package memory

import (
	"context"
	"fmt"
	"sync"

	"rentbook/internal/core"
)

// Row is one exported ledger line.
type Row struct {
	Tenant  core.Tenant
	Payment core.Payment
}

// Store records exported payments in memory. It stands in for the
// Google Sheets exporter in tests and in setups without credentials.
type Store struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Store {
	return &Store{}
}

// AppendPayment stores the row and returns a synthetic row reference.
func (s *Store) AppendPayment(_ context.Context, tenant core.Tenant, payment core.Payment) (string, error) {
	if err := payment.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{Tenant: tenant, Payment: payment})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything exported so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
