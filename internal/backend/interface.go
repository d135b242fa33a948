package backend

import (
	"context"

	"rentbook/internal/core"
)

// Backend is the unified surface the HTTP server works against,
// regardless of which store sits underneath.
type Backend interface {
	CreateTenant(ctx context.Context, t core.Tenant) (core.Tenant, error)
	RecordPayment(ctx context.Context, p core.Payment) (core.Payment, error)
	ListTenants(ctx context.Context) ([]core.Tenant, error)
	DashboardSummary(ctx context.Context) (core.DashboardSummary, error)
	TenantHistory(ctx context.Context, tenantID string, ref *core.Month) (core.TenantHistory, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional, sqlite backend only)
	AMQPURL         string
	AMQPExchange    string
	AMQPSyncQueue   string
	AMQPNoticeQueue string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
