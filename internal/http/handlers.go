package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"rentbook/internal/core"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps ledger errors to status codes: unknown ids are
// 404, validation failures on well-formed input are 422, everything
// else is a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrTenantNotFound), errors.Is(err, core.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNegativeRent),
		errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads one JSON object from the body, rejecting unknown
// fields and trailing garbage.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("unexpected trailing data in request body")
	}
	return nil
}

type createTenantRequest struct {
	Name         string     `json:"name"`
	MonthlyRent  core.Money `json:"monthly_rent"`
	ContactEmail string     `json:"contact_email"`
	MoveInDate   core.Date  `json:"move_in_date"`
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := s.backend.CreateTenant(r.Context(), core.Tenant{
		Name:         strings.TrimSpace(req.Name),
		MonthlyRent:  req.MonthlyRent,
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		MoveInDate:   req.MoveInDate,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, tenant)
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.backend.ListTenants(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if tenants == nil {
		tenants = []core.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

type recordPaymentRequest struct {
	TenantID    string     `json:"tenant_id"`
	Amount      core.Money `json:"amount"`
	PaymentDate core.Date  `json:"payment_date"`
	Notes       string     `json:"notes"`
}

func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := s.backend.RecordPayment(r.Context(), core.Payment{
		TenantID:    strings.TrimSpace(req.TenantID),
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Notes:       strings.TrimSpace(req.Notes),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, payment)
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "summary"

	if summary, ok := s.summaryCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.backend.DashboardSummary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.summaryCache.Set(cacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTenantHistory(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("id")

	var ref *core.Month
	cacheKey := tenantID
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := core.ParseMonth(raw)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		ref = &month
		cacheKey = tenantID + "@" + month.String()
	}

	if history, ok := s.historyCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, history)
		return
	}

	history, err := s.backend.TenantHistory(r.Context(), tenantID, ref)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.historyCache.Set(cacheKey, history)
	writeJSON(w, http.StatusOK, history)
}
