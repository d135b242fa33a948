package core

import "sort"

// MonthlyDueStatus is the derived state of one due month. It is
// recomputed on every request and never persisted.
type MonthlyDueStatus struct {
	Month         Month `json:"month"`
	ExpectedRent  Money `json:"expected_rent"`
	PaidAmount    Money `json:"paid_amount"`
	PendingAmount Money `json:"pending_amount"`
	PaidInFull    bool  `json:"is_paid_in_full"`
}

type TenantHistory struct {
	Tenant           Tenant             `json:"tenant"`
	Payments         []Payment          `json:"payments"`
	MonthlyDueStatus []MonthlyDueStatus `json:"monthly_due_status"`
}

// ComputeTenantHistory derives the month-by-month rent ledger for one
// tenant against a reference month.
//
// Due months run from the month containing MoveInDate through ref,
// inclusive and ascending; a move-in month after ref yields no due
// months. Each due month expects the flat MonthlyRent (no proration for
// a partial first month). A payment counts toward the due month its
// PaymentDate falls in; payments outside the enumerated window are left
// out of the matching but still appear in the returned Payments, which
// are sorted newest first for display.
func ComputeTenantHistory(tenant Tenant, payments []Payment, ref Month) TenantHistory {
	history := TenantHistory{Tenant: tenant, MonthlyDueStatus: []MonthlyDueStatus{}}

	paidByMonth := make(map[Month]int64, len(payments))
	for _, p := range payments {
		paidByMonth[MonthOf(p.PaymentDate.Time)] += p.Amount.Cents
	}

	start := MonthOf(tenant.MoveInDate.Time)
	if !start.After(ref) {
		for m := start; ; m = m.Next() {
			expected := tenant.MonthlyRent.Cents
			paid := paidByMonth[m]
			pending := expected - paid
			if pending < 0 {
				pending = 0
			}
			history.MonthlyDueStatus = append(history.MonthlyDueStatus, MonthlyDueStatus{
				Month:         m,
				ExpectedRent:  Money{Cents: expected},
				PaidAmount:    Money{Cents: paid},
				PendingAmount: Money{Cents: pending},
				PaidInFull:    paid >= expected,
			})
			if m == ref {
				break
			}
		}
	}

	history.Payments = make([]Payment, len(payments))
	copy(history.Payments, payments)
	sort.SliceStable(history.Payments, func(i, j int) bool {
		return history.Payments[i].PaymentDate.After(history.Payments[j].PaymentDate.Time)
	})

	return history
}
