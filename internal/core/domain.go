package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date at UTC midnight. The time component is
	// never significant for ledger math.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Tenant is immutable after creation. MonthlyRent applies uniformly
	// to every due month from MoveInDate onward.
	Tenant struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		MonthlyRent  Money     `json:"monthly_rent"`
		ContactEmail string    `json:"contact_email,omitempty"`
		MoveInDate   Date      `json:"move_in_date"`
		CreatedAt    time.Time `json:"created_at"`
	}

	Payment struct {
		ID          string    `json:"id"`
		TenantID    string    `json:"tenant_id"`
		Amount      Money     `json:"amount"`
		PaymentDate Date      `json:"payment_date"`
		Notes       string    `json:"notes,omitempty"`
		RecordedAt  time.Time `json:"recorded_at"`
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidMonth   = errors.New("invalid month key")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeRent   = errors.New("negative monthly rent")
	ErrEmptyName      = errors.New("empty tenant name")
	ErrTenantNotFound = errors.New("tenant not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t Tenant) Validate() error {
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyName
	}
	if len(t.Name) > 200 {
		return errors.New("tenant name too long (max 200 characters)")
	}
	// Zero rent is legal: every due month is then trivially paid in full.
	if t.MonthlyRent.Cents < 0 {
		return ErrNegativeRent
	}
	if err := t.MoveInDate.Validate(); err != nil {
		return errors.New("invalid move-in date: " + err.Error())
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.TenantID) == "" {
		return errors.New("empty tenant id")
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := p.PaymentDate.Validate(); err != nil {
		return errors.New("invalid payment date: " + err.Error())
	}
	if len(p.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}
