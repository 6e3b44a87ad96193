package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/doctorsportal/booking-api/internal/model"
)

// Sentinel errors every implementation must return so services can map
// them onto the API error taxonomy without knowing the backend.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record violates a uniqueness constraint")
	ErrDuplicateSlot = errors.New("slot already booked")
)

// All repository interfaces in one file
type (
	// ServiceRepository reads the immutable treatment catalog
	ServiceRepository interface {
		List(ctx context.Context) ([]*model.Service, error)
		GetByName(ctx context.Context, name string) (*model.Service, error)
	}

	// BookingRepository owns booking and payment state
	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		// Find returns the booking for (treatment, date, patientEmail),
		// or ErrNotFound.
		Find(ctx context.Context, treatment, date, patientEmail string) (*model.Booking, error)
		ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
		ListByPatient(ctx context.Context, patientEmail string) ([]*model.Booking, error)
		// SlotTaken reports whether any booking occupies
		// (treatment, date, slot).
		SlotTaken(ctx context.Context, treatment, date, slot string) (bool, error)
		// ConfirmPayment atomically records the payment and marks the
		// booking paid. ErrNotFound when the booking does not exist;
		// in that case no payment row is written.
		ConfirmPayment(ctx context.Context, id uuid.UUID, transactionID string) (*model.Booking, error)
	}

	// UserRepository is keyed by email, the identity natural key
	UserRepository interface {
		Upsert(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		UpdateRole(ctx context.Context, email string, role model.Role) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
		Delete(ctx context.Context, email string) error
	}
)
