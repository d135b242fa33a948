package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rentbook/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ TenantStore  = (*SQLiteRepository)(nil)
	_ PaymentStore = (*SQLiteRepository)(nil)
	_ SyncQueue    = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTenant(ctx context.Context, t core.Tenant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, monthly_rent_cents, contact_email, move_in_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.MonthlyRent.Cents, t.ContactEmail, t.MoveInDate.String(), t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}

	slog.InfoContext(ctx, "Tenant saved to SQLite",
		"id", t.ID,
		"name", t.Name,
		"monthly_rent_cents", t.MonthlyRent.Cents,
		"move_in_date", t.MoveInDate.String())

	return nil
}

func (r *SQLiteRepository) GetTenant(ctx context.Context, id string) (core.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, monthly_rent_cents, contact_email, move_in_date, created_at
		 FROM tenants WHERE id = ?`, id)

	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Tenant{}, core.ErrTenantNotFound
	}
	if err != nil {
		return core.Tenant{}, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListTenants(ctx context.Context) ([]core.Tenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, monthly_rent_cents, contact_email, move_in_date, created_at
		 FROM tenants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []core.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, tenant_id, amount_cents, payment_date, notes, recorded_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, 'pending')`,
		p.ID, p.TenantID, p.Amount.Cents, p.PaymentDate.String(), p.Notes, p.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved to SQLite",
		"id", p.ID,
		"tenant_id", p.TenantID,
		"amount_cents", p.Amount.Cents,
		"payment_date", p.PaymentDate.String())

	return nil
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, amount_cents, payment_date, notes, recorded_at
		 FROM payments WHERE id = ?`, id)

	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, core.ErrPaymentNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT id, tenant_id, amount_cents, payment_date, notes, recorded_at
		 FROM payments ORDER BY payment_date, recorded_at`)
}

func (r *SQLiteRepository) ListTenantPayments(ctx context.Context, tenantID string) ([]core.Payment, error) {
	return r.queryPayments(ctx,
		`SELECT id, tenant_id, amount_cents, payment_date, notes, recorded_at
		 FROM payments WHERE tenant_id = ? ORDER BY payment_date, recorded_at`, tenantID)
}

func (r *SQLiteRepository) queryPayments(ctx context.Context, query string, args ...any) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []core.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetPendingSyncPayments returns payments that still need to be exported
// to the sheets ledger.
func (r *SQLiteRepository) GetPendingSyncPayments(ctx context.Context, limit int) ([]PendingSyncPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recorded_at FROM payments
		 WHERE sync_status = 'pending' ORDER BY recorded_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync payments: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncPayment
	for rows.Next() {
		var p PendingSyncPayment
		var recorded string
		if err := rows.Scan(&p.ID, &recorded); err != nil {
			return nil, fmt.Errorf("scan pending payment: %w", err)
		}
		p.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a payment as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET sync_status = 'synced', synced_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("mark payment synced: %w", err)
	}

	slog.InfoContext(ctx, "Payment marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a payment as having export errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET sync_status = 'error' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark payment sync error: %w", err)
	}

	slog.WarnContext(ctx, "Payment marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (core.Tenant, error) {
	var (
		t        core.Tenant
		moveIn   string
		created  string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.MonthlyRent.Cents, &t.ContactEmail, &moveIn, &created); err != nil {
		return core.Tenant{}, err
	}

	var err error
	if t.MoveInDate, err = core.ParseDate(moveIn); err != nil {
		return core.Tenant{}, fmt.Errorf("move_in_date %q: %w", moveIn, err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return t, nil
}

func scanPayment(row rowScanner) (core.Payment, error) {
	var (
		p        core.Payment
		paidOn   string
		recorded string
	)
	if err := row.Scan(&p.ID, &p.TenantID, &p.Amount.Cents, &paidOn, &p.Notes, &recorded); err != nil {
		return core.Payment{}, err
	}

	var err error
	if p.PaymentDate, err = core.ParseDate(paidOn); err != nil {
		return core.Payment{}, fmt.Errorf("payment_date %q: %w", paidOn, err)
	}
	p.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
	return p, nil
}
