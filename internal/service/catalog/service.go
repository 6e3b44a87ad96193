package catalog

import (
	"context"
	"fmt"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

type Service struct {
	services repository.ServiceRepository
	bookings repository.BookingRepository
}

func NewService(services repository.ServiceRepository, bookings repository.BookingRepository) *Service {
	return &Service{services: services, bookings: bookings}
}

// ListServices returns the full treatment catalog
func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list services: %w", err))
	}
	return services, nil
}

// Availability computes the remaining open slots per service for one
// date: catalog slots minus booked slot labels, catalog order
// preserved. State is re-read per request; nothing is cached.
// O(services x slots), fine at clinic scale.
func (s *Service) Availability(ctx context.Context, date string) ([]*model.ServiceAvailability, error) {
	services, err := s.services.List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list services: %w", err))
	}

	bookings, err := s.bookings.ListByDate(ctx, date)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list bookings: %w", err))
	}

	// Partition booked slot labels by treatment. Labels not present in
	// a service's catalog (stale rows) drop out of the subtraction.
	booked := make(map[string]map[string]bool)
	for _, b := range bookings {
		if booked[b.Treatment] == nil {
			booked[b.Treatment] = make(map[string]bool)
		}
		booked[b.Treatment][b.Slot] = true
	}

	out := make([]*model.ServiceAvailability, 0, len(services))
	for _, svc := range services {
		available := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if !booked[svc.Name][slot] {
				available = append(available, slot)
			}
		}
		out = append(out, &model.ServiceAvailability{
			Service:        *svc,
			AvailableSlots: available,
		})
	}
	return out, nil
}
