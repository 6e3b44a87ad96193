package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doctorsportal/booking-api/internal/model"
)

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) (err error) {
	start := time.Now()
	defer func() { r.observe("create_booking", start, err) }()

	query := `
		INSERT INTO bookings (
			id, treatment, date, slot, patient_email, patient_name,
			price, paid, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		booking.ID,
		booking.Treatment,
		booking.Date,
		booking.Slot,
		booking.PatientEmail,
		booking.PatientName,
		booking.Price,
		booking.Paid,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		err = mapError(err)
		return err
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, treatment, date, slot, patient_email, patient_name,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, mapError(err)
	}
	return &booking, nil
}

func (r *bookingRepository) Find(ctx context.Context, treatment, date, patientEmail string) (*model.Booking, error) {
	query := `
		SELECT id, treatment, date, slot, patient_email, patient_name,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE treatment = $1 AND date = $2 AND patient_email = $3
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, treatment, date, patientEmail); err != nil {
		return nil, mapError(err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	query := `
		SELECT id, treatment, date, slot, patient_email, patient_name,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE date = $1
		ORDER BY treatment, slot
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, date); err != nil {
		return nil, fmt.Errorf("failed to list bookings by date: %w", mapError(err))
	}
	return bookings, nil
}

func (r *bookingRepository) ListByPatient(ctx context.Context, patientEmail string) ([]*model.Booking, error) {
	query := `
		SELECT id, treatment, date, slot, patient_email, patient_name,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE patient_email = $1
		ORDER BY date DESC, slot
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, patientEmail); err != nil {
		return nil, fmt.Errorf("failed to list bookings by patient: %w", mapError(err))
	}
	return bookings, nil
}

func (r *bookingRepository) SlotTaken(ctx context.Context, treatment, date, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE treatment = $1 AND date = $2 AND slot = $3
		)
	`
	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, treatment, date, slot); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", mapError(err))
	}
	return taken, nil
}

// ConfirmPayment marks the booking paid and records the payment row in
// one transaction. Either both writes land or neither does.
func (r *bookingRepository) ConfirmPayment(ctx context.Context, id uuid.UUID, transactionID string) (booking *model.Booking, err error) {
	start := time.Now()
	defer func() { r.observe("confirm_payment", start, err) }()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE bookings
		SET paid = TRUE, transaction_id = $1, updated_at = $2
		WHERE id = $3
		RETURNING id, treatment, date, slot, patient_email, patient_name,
				  price, paid, transaction_id, created_at, updated_at
	`
	booking = &model.Booking{}
	if err = tx.GetContext(ctx, booking, updateQuery, transactionID, time.Now(), id); err != nil {
		err = mapError(err)
		return nil, err
	}

	insertQuery := `
		INSERT INTO payments (id, booking_id, transaction_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err = tx.ExecContext(ctx, insertQuery,
		uuid.New(), booking.ID, transactionID, booking.Price, time.Now(),
	); err != nil {
		err = fmt.Errorf("failed to record payment: %w", mapError(err))
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit payment: %w", err)
		return nil, err
	}
	return booking, nil
}
