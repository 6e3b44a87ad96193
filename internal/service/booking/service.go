package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/doctorsportal/booking-api/internal/email"
	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
	"github.com/doctorsportal/booking-api/pkg/lock"
	"github.com/doctorsportal/booking-api/pkg/metrics"
	"github.com/doctorsportal/booking-api/pkg/payment"
)

// Outcome is the result of a reservation attempt. AlreadyBooked is a
// normal branch carrying the patient's existing booking, not an error.
type Outcome struct {
	Created bool           `json:"created"`
	Booking *model.Booking `json:"booking"`
}

type Service struct {
	bookings repository.BookingRepository
	services repository.ServiceRepository
	locker   lock.Locker
	intents  payment.IntentService
	mailer   email.Service
	metrics  *metrics.Metrics
	currency string
}

func NewService(
	bookings repository.BookingRepository,
	services repository.ServiceRepository,
	locker lock.Locker,
	intents payment.IntentService,
	mailer email.Service,
	m *metrics.Metrics,
	currency string,
) *Service {
	return &Service{
		bookings: bookings,
		services: services,
		locker:   locker,
		intents:  intents,
		mailer:   mailer,
		metrics:  m,
		currency: currency,
	}
}

// Reserve commits a booking for (treatment, date, slot, patient).
// Check-then-act runs inside the per-(treatment,date) lock so
// concurrent attempts for the same slot serialize; the store's unique
// indexes are the backstop if the lock is bypassed.
func (s *Service) Reserve(ctx context.Context, req *model.CreateBookingRequest) (*Outcome, error) {
	svc, err := s.services.GetByName(ctx, req.Treatment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("service", err)
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("load service: %w", err))
	}

	if !slotInCatalog(svc.Slots, req.Slot) {
		s.countConflict("unknown_slot")
		return nil, apperrors.SlotUnavailable("requested slot is not offered by this service")
	}

	var outcome *Outcome
	key := req.Treatment + "|" + req.Date

	start := time.Now()
	err = s.locker.WithLock(ctx, key, func(lockCtx context.Context) error {
		existing, err := s.bookings.Find(lockCtx, req.Treatment, req.Date, req.PatientEmail)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return apperrors.StoreUnavailable(fmt.Errorf("find booking: %w", err))
		}
		if existing != nil {
			outcome = &Outcome{Created: false, Booking: existing}
			return nil
		}

		taken, err := s.bookings.SlotTaken(lockCtx, req.Treatment, req.Date, req.Slot)
		if err != nil {
			return apperrors.StoreUnavailable(fmt.Errorf("check slot: %w", err))
		}
		if taken {
			s.countConflict("slot_taken")
			return apperrors.SlotUnavailable("slot is no longer available")
		}

		booking := &model.Booking{
			Treatment:    req.Treatment,
			Date:         req.Date,
			Slot:         req.Slot,
			PatientEmail: req.PatientEmail,
			PatientName:  req.PatientName,
			Price:        svc.Price,
		}
		if err := s.bookings.Create(lockCtx, booking); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateSlot):
				s.countConflict("slot_taken")
				return apperrors.SlotUnavailable("slot is no longer available")
			case errors.Is(err, repository.ErrDuplicate):
				// Lost a race on the patient-uniqueness index; surface
				// the winning booking as AlreadyBooked.
				winner, ferr := s.bookings.Find(lockCtx, req.Treatment, req.Date, req.PatientEmail)
				if ferr != nil {
					return apperrors.StoreUnavailable(fmt.Errorf("reload booking: %w", ferr))
				}
				outcome = &Outcome{Created: false, Booking: winner}
				return nil
			default:
				return apperrors.StoreUnavailable(fmt.Errorf("create booking: %w", err))
			}
		}
		outcome = &Outcome{Created: true, Booking: booking}
		return nil
	})
	if s.metrics != nil {
		s.metrics.ReserveLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			s.countConflict("lock_contention")
			return nil, apperrors.SlotUnavailable("slot is currently being booked, please retry")
		}
		return nil, err
	}

	if outcome.Created {
		if s.metrics != nil {
			s.metrics.BookingsCreated.Inc()
		}
		if s.mailer != nil {
			if err := s.mailer.SendBookingConfirmation(ctx, outcome.Booking); err != nil {
				log.Warn().Err(err).
					Str("booking_id", outcome.Booking.ID.String()).
					Msg("failed to send booking confirmation")
			}
		}
	}
	return outcome, nil
}

// Get returns a booking by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("get booking: %w", err))
	}
	return booking, nil
}

// ListForPatient returns the bookings belonging to one email. The
// handler has already verified the caller owns this email.
func (s *Service) ListForPatient(ctx context.Context, patientEmail string) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListByPatient(ctx, patientEmail)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list bookings: %w", err))
	}
	return bookings, nil
}

// ConfirmPayment records the payment and marks the booking paid in one
// transactional unit; on an unknown booking nothing is written.
func (s *Service) ConfirmPayment(ctx context.Context, id uuid.UUID, transactionID string) (*model.Booking, error) {
	booking, err := s.bookings.ConfirmPayment(ctx, id, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("confirm payment: %w", err))
	}

	if s.metrics != nil {
		s.metrics.PaymentsConfirmed.Inc()
	}
	if s.mailer != nil {
		if err := s.mailer.SendPaymentReceipt(ctx, booking); err != nil {
			log.Warn().Err(err).
				Str("booking_id", booking.ID.String()).
				Msg("failed to send payment receipt")
		}
	}
	return booking, nil
}

// CreatePaymentIntent asks the external processor for a client secret
// covering the booking's price. Processor-internal state is not stored.
func (s *Service) CreatePaymentIntent(ctx context.Context, id uuid.UUID) (*model.PaymentIntentResponse, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	intent, err := s.intents.CreateIntent(ctx, booking.Price, s.currency)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create payment intent: %w", err))
	}
	return &model.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

func (s *Service) countConflict(reason string) {
	if s.metrics != nil {
		s.metrics.BookingConflicts.WithLabelValues(reason).Inc()
	}
}

func slotInCatalog(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
