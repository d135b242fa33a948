package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentbook/internal/adapters"
	"rentbook/internal/core"
	"rentbook/internal/services"
	"rentbook/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.MemoryRepository) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	now := func() time.Time {
		return time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
	writes := services.NewRentBookService(repo, repo, nil)
	reads := services.NewLedgerService(repo, repo, now)
	s := NewServer(":0", adapters.NewLedgerAdapter(repo, writes, reads))
	t.Cleanup(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
	})
	return s, repo
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func createTenant(t *testing.T, s *Server, body string) core.Tenant {
	t.Helper()
	rec := doRequest(s, http.MethodPost, "/tenants", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create tenant: status %d, body %s", rec.Code, rec.Body.String())
	}
	var tenant core.Tenant
	if err := json.Unmarshal(rec.Body.Bytes(), &tenant); err != nil {
		t.Fatalf("decode tenant: %v", err)
	}
	return tenant
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d", rec.Code)
	}
}

func TestCreateTenant(t *testing.T) {
	s, _ := newTestServer(t)

	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"contact_email":"alice@example.com","move_in_date":"2024-01-15"}`)
	if tenant.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if tenant.MonthlyRent.Cents != 100000 {
		t.Fatalf("monthly rent cents = %d", tenant.MonthlyRent.Cents)
	}

	rec := doRequest(s, http.MethodGet, "/tenants", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var tenants []core.Tenant
	if err := json.Unmarshal(rec.Body.Bytes(), &tenants); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(tenants) != 1 || tenants[0].ID != tenant.ID {
		t.Fatalf("tenants = %+v", tenants)
	}
}

func TestCreateTenantValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/tenants", `{"name":"","monthly_rent":1000,"move_in_date":"2024-01-15"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty name status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/tenants", `{"name":"Bob","monthly_rent":-5,"move_in_date":"2024-01-15"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative rent status = %d", rec.Code)
	}
}

func TestCreateTenantMalformedBody(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/tenants", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/tenants", `{"name":"Bob","monthly_rent":1000,"move_in_date":"15/01/2024"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date format status = %d", rec.Code)
	}
}

func TestRecordPayment(t *testing.T) {
	s, _ := newTestServer(t)
	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-15"}`)

	rec := doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":600,"payment_date":"2024-06-01","notes":"june rent"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment status = %d, body %s", rec.Code, rec.Body.String())
	}

	var payment core.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payment); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	if payment.ID == "" || payment.TenantID != tenant.ID {
		t.Fatalf("payment = %+v", payment)
	}
}

func TestRecordPaymentErrors(t *testing.T) {
	s, _ := newTestServer(t)
	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-15"}`)

	rec := doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"missing","amount":600,"payment_date":"2024-06-01"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown tenant status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":0,"payment_date":"2024-06-01"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero amount status = %d", rec.Code)
	}
}

func TestDashboardSummary(t *testing.T) {
	s, _ := newTestServer(t)
	createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-01"}`)
	tenant := createTenant(t, s, `{"name":"Bob Jones","monthly_rent":1500,"move_in_date":"2024-03-10"}`)

	rec := doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":1000,"payment_date":"2024-06-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/dashboard-summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}

	var summary core.DashboardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
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

func TestDashboardSummaryCacheInvalidation(t *testing.T) {
	s, _ := newTestServer(t)
	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-01"}`)

	// Prime the cache.
	doRequest(s, http.MethodGet, "/dashboard-summary", "")

	rec := doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":1000,"payment_date":"2024-06-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/dashboard-summary", "")
	var summary core.DashboardSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalCollected.Cents != 100000 {
		t.Fatalf("summary served stale collected = %d", summary.TotalCollected.Cents)
	}
}

func TestTenantHistory(t *testing.T) {
	s, _ := newTestServer(t)
	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-15"}`)

	doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":600,"payment_date":"2024-01-20"}`)
	doRequest(s, http.MethodPost, "/payments",
		`{"tenant_id":"`+tenant.ID+`","amount":1000,"payment_date":"2024-02-05"}`)

	rec := doRequest(s, http.MethodGet, "/tenants/"+tenant.ID+"/history?month=2024-02", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d, body %s", rec.Code, rec.Body.String())
	}

	var history core.TenantHistory
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.MonthlyDueStatus) != 2 {
		t.Fatalf("statuses = %d", len(history.MonthlyDueStatus))
	}
	jan := history.MonthlyDueStatus[0]
	if jan.PaidAmount.Cents != 60000 || jan.PendingAmount.Cents != 40000 || jan.PaidInFull {
		t.Fatalf("january = %+v", jan)
	}
	feb := history.MonthlyDueStatus[1]
	if !feb.PaidInFull || feb.PendingAmount.Cents != 0 {
		t.Fatalf("february = %+v", feb)
	}
	if len(history.Payments) != 2 || history.Payments[0].Amount.Cents != 100000 {
		t.Fatalf("payments should be newest first: %+v", history.Payments)
	}
}

func TestTenantHistoryErrors(t *testing.T) {
	s, _ := newTestServer(t)
	tenant := createTenant(t, s, `{"name":"Alice Smith","monthly_rent":1000,"move_in_date":"2024-01-15"}`)

	rec := doRequest(s, http.MethodGet, "/tenants/missing/history", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown tenant status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/tenants/"+tenant.ID+"/history?month=2024-13", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad month status = %d", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}
