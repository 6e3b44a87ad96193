package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/doctorsportal/booking-api/internal/repository"
	"github.com/doctorsportal/booking-api/pkg/metrics"
)

type serviceRepository struct {
	db *sqlx.DB
}

type bookingRepository struct {
	db      *sqlx.DB
	metrics *metrics.Metrics
}

type userRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	db *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

func NewBookingRepository(db *sqlx.DB, m *metrics.Metrics) repository.BookingRepository {
	return &bookingRepository{db: db, metrics: m}
}

// observe records outcome and latency for a booking write path
func (r *bookingRepository) observe(op string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	r.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

const uniqueViolation = "23505"

// mapError translates driver errors onto the repository sentinels so
// callers never branch on lib/pq internals.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if pqErr.Constraint == "bookings_slot_unique" {
			return repository.ErrDuplicateSlot
		}
		return repository.ErrDuplicate
	}
	return err
}
