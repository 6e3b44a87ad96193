package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment is append-only: one row per confirmed payment, written in the
// same transaction that marks the booking paid.
type Payment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	BookingID     uuid.UUID `json:"booking_id" db:"booking_id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	Amount        int64     `json:"amount" db:"amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// PaymentIntentResponse is returned to the client to complete a payment
type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}
