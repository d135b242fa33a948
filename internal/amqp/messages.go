package amqp

import (
	"encoding/json"
	"time"
)

// PaymentSyncMessage tells the worker that a payment needs to be
// exported to the sheets ledger. It carries only the id; the worker
// fetches the full record from storage.
type PaymentSyncMessage struct {
	PaymentID string    `json:"payment_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPaymentSyncMessage(paymentID string) *PaymentSyncMessage {
	return &PaymentSyncMessage{
		PaymentID: paymentID,
		Timestamp: time.Now(),
	}
}

func (m *PaymentSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentSyncMessageFromJSON(data []byte) (*PaymentSyncMessage, error) {
	var msg PaymentSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DueNoticeMessage announces that a tenant's rent for a month is not
// fully paid. Consumers (e.g. a mailer) turn it into a reminder.
type DueNoticeMessage struct {
	TenantID     string    `json:"tenant_id"`
	TenantName   string    `json:"tenant_name"`
	Month        string    `json:"month"` // YYYY-MM
	PendingCents int64     `json:"pending_cents"`
	Timestamp    time.Time `json:"timestamp"`
}

func (m *DueNoticeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DueNoticeMessageFromJSON(data []byte) (*DueNoticeMessage, error) {
	var msg DueNoticeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
