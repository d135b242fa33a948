package sheets

import (
	"context"

	"rentbook/internal/core"
)

// Ports for outbound ledger export adapters.
type (
	// LedgerExporter appends one payment row to the external ledger.
	LedgerExporter interface {
		AppendPayment(ctx context.Context, tenant core.Tenant, payment core.Payment) (rowRef string, err error)
	}
)
