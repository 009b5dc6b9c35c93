package sendlogrepo

import (
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// SendLog records the outcome of one delivery attempt to one recipient.
type SendLog struct {
	ID             int64     `json:"id" db:"id" validate:"-"` // primary key
	BatchID        string    `json:"batch_id" db:"batch_id" validate:"required"`
	SenderEmail    string    `json:"sender_email" db:"sender_email" validate:"required"`
	RecipientEmail string    `json:"recipient_email" db:"recipient_email" validate:"required"`
	RecipientName  string    `json:"recipient_name" db:"recipient_name" validate:"-"`
	Subject        string    `json:"subject" db:"subject" validate:"-"`
	Status         string    `json:"status" db:"status" validate:"required,oneof=success failure"`
	ErrorMessage   string    `json:"error_message" db:"error_message" validate:"-"`
	SendTime       time.Time `json:"send_time" db:"send_time" validate:"required"`
}

// BatchSummary aggregates the audit rows of one batch. The send times are
// kept as stored text because SQLite drops the declared column type on
// aggregate expressions.
type BatchSummary struct {
	BatchID   string `json:"batch_id" db:"batch_id"`
	Total     int    `json:"total" db:"total"`
	Succeeded int    `json:"succeeded" db:"succeeded"`
	Failed    int    `json:"failed" db:"failed"`
	FirstSend string `json:"first_send" db:"first_send"`
	LastSend  string `json:"last_send" db:"last_send"`
}
