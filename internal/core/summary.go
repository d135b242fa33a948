package core

// DashboardSummary holds dashboard-wide totals for one reference month.
// Derived on every request, never persisted.
type DashboardSummary struct {
	TotalTenants      int   `json:"total_tenants"`
	TotalExpectedRent Money `json:"total_expected_rent_current_month"`
	TotalCollected    Money `json:"total_collected_current_month"`
	TotalPending      Money `json:"total_pending_current_month"`
}

// ComputeDashboardSummary aggregates all tenants and payments into the
// totals for the reference month.
//
// TotalTenants counts every tenant record, including tenants whose
// move-in month is after ref; those tenants just contribute no expected
// rent. Collected sums every payment dated within ref regardless of the
// payer's move-in date. Pending is derived at the aggregate level,
// max(expected-collected, 0), not as a sum of per-tenant pending values:
// one tenant's overpayment can mask another's arrears here, which the
// per-tenant ledger does not allow.
func ComputeDashboardSummary(tenants []Tenant, payments []Payment, ref Month) DashboardSummary {
	summary := DashboardSummary{TotalTenants: len(tenants)}

	for _, t := range tenants {
		if MonthOf(t.MoveInDate.Time).After(ref) {
			continue
		}
		summary.TotalExpectedRent.Cents += t.MonthlyRent.Cents
	}

	for _, p := range payments {
		if ref.Contains(p.PaymentDate) {
			summary.TotalCollected.Cents += p.Amount.Cents
		}
	}

	pending := summary.TotalExpectedRent.Cents - summary.TotalCollected.Cents
	if pending < 0 {
		pending = 0
	}
	summary.TotalPending = Money{Cents: pending}

	return summary
}
