package model

// Booking lifecycle: created unpaid, updated exactly once when payment
// is confirmed. Never deleted in the normal flow.
type Booking struct {
	Base
	Treatment     string  `json:"treatment" db:"treatment"`
	Date          string  `json:"date" db:"date"`
	Slot          string  `json:"slot" db:"slot"`
	PatientEmail  string  `json:"patient_email" db:"patient_email"`
	PatientName   string  `json:"patient_name" db:"patient_name"`
	Price         int64   `json:"price" db:"price"`
	Paid          bool    `json:"paid" db:"paid"`
	TransactionID *string `json:"transaction_id,omitempty" db:"transaction_id"`
}

// CreateBookingRequest carries a reservation attempt
type CreateBookingRequest struct {
	Treatment    string `json:"treatment" binding:"required"`
	Date         string `json:"date" binding:"required,bookdate"`
	Slot         string `json:"slot" binding:"required"`
	PatientEmail string `json:"patient_email" binding:"required,email"`
	PatientName  string `json:"patient_name" binding:"required"`
}

// ConfirmPaymentRequest records the processor's transaction id against
// a booking
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}
