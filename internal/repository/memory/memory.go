// Package memory implements the repository interfaces against process
// memory. It mirrors the postgres backend's uniqueness and atomicity
// guarantees so services behave identically under test.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
)

// Store holds all entities behind one mutex. A single lock keeps the
// ConfirmPayment booking-update + payment-insert pair atomic, matching
// the SQL transaction in the postgres backend.
type Store struct {
	mu       sync.RWMutex
	services []*model.Service
	bookings map[uuid.UUID]*model.Booking
	payments []*model.Payment
	users    map[string]*model.User
	doctors  map[string]*model.Doctor
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]*model.Booking),
		users:    make(map[string]*model.User),
		doctors:  make(map[string]*model.Doctor),
	}
}

// AddService seeds the catalog (test fixture helper)
func (s *Store) AddService(name string, slots []string, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = append(s.services, &model.Service{
		Base:  model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:  name,
		Slots: append(model.StringSlice{}, slots...),
		Price: price,
	})
	sort.Slice(s.services, func(i, j int) bool { return s.services[i].Name < s.services[j].Name })
}

// Payments returns a snapshot of recorded payments (test assertions)
func (s *Store) Payments() []*model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// ServiceRepository

type serviceRepo struct{ store *Store }

func (s *Store) Services() repository.ServiceRepository { return &serviceRepo{store: s} }

func (r *serviceRepo) List(ctx context.Context) ([]*model.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.Service, 0, len(r.store.services))
	for _, svc := range r.store.services {
		copied := *svc
		out = append(out, &copied)
	}
	return out, nil
}

func (r *serviceRepo) GetByName(ctx context.Context, name string) (*model.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, svc := range r.store.services {
		if svc.Name == name {
			copied := *svc
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// BookingRepository

type bookingRepo struct{ store *Store }

func (s *Store) Bookings() repository.BookingRepository { return &bookingRepo{store: s} }

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.Treatment == booking.Treatment && b.Date == booking.Date {
			if b.Slot == booking.Slot {
				return repository.ErrDuplicateSlot
			}
			if b.PatientEmail == booking.PatientEmail {
				return repository.ErrDuplicate
			}
		}
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	return nil
}

func (r *bookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *bookingRepo) Find(ctx context.Context, treatment, date, patientEmail string) (*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.bookings {
		if b.Treatment == treatment && b.Date == date && b.PatientEmail == patientEmail {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *bookingRepo) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*model.Booking
	for _, b := range r.store.bookings {
		if b.Date == date {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *bookingRepo) ListByPatient(ctx context.Context, patientEmail string) ([]*model.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*model.Booking
	for _, b := range r.store.bookings {
		if b.PatientEmail == patientEmail {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *bookingRepo) SlotTaken(ctx context.Context, treatment, date, slot string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.bookings {
		if b.Treatment == treatment && b.Date == date && b.Slot == slot {
			return true, nil
		}
	}
	return false, nil
}

func (r *bookingRepo) ConfirmPayment(ctx context.Context, id uuid.UUID, transactionID string) (*model.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b.Paid = true
	b.TransactionID = &transactionID
	b.UpdatedAt = time.Now()
	r.store.payments = append(r.store.payments, &model.Payment{
		ID:            uuid.New(),
		BookingID:     b.ID,
		TransactionID: transactionID,
		Amount:        b.Price,
		CreatedAt:     time.Now(),
	})
	copied := *b
	return &copied, nil
}

// UserRepository

type userRepo struct{ store *Store }

func (s *Store) Users() repository.UserRepository { return &userRepo{store: s} }

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.users[user.Email]; ok {
		existing.Name = user.Name
		if user.PasswordHash != "" {
			existing.PasswordHash = user.PasswordHash
		}
		existing.UpdatedAt = time.Now()
		*user = *existing
		return nil
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RolePatient
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.store.users[user.Email] = &copied
	return nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *userRepo) UpdateRole(ctx context.Context, email string, role model.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// DoctorRepository

type doctorRepo struct{ store *Store }

func (s *Store) Doctors() repository.DoctorRepository { return &doctorRepo{store: s} }

func (r *doctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.doctors[doctor.Email]; ok {
		return repository.ErrDuplicate
	}
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	copied := *doctor
	r.store.doctors[doctor.Email] = &copied
	return nil
}

func (r *doctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*model.Doctor, 0, len(r.store.doctors))
	for _, d := range r.store.doctors {
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *doctorRepo) Delete(ctx context.Context, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.doctors[email]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.doctors, email)
	return nil
}
