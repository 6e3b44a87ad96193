package postgres

import (
	"context"
	"fmt"

	"github.com/doctorsportal/booking-api/internal/model"
)

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, slots, price, created_at, updated_at
		FROM services
		ORDER BY name ASC
	`
	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", mapError(err))
	}
	return services, nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	query := `
		SELECT id, name, slots, price, created_at, updated_at
		FROM services
		WHERE name = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, name); err != nil {
		return nil, mapError(err)
	}
	return &service, nil
}
