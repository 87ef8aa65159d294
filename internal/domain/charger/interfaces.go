package charger

import "context"

type Repository interface {
	Create(ctx context.Context, c *Charger) error
	GetByID(ctx context.Context, id string) (*Charger, error)
	UpdateAvailability(ctx context.Context, id string, windows Windows) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	FindBySpecs(ctx context.Context, f SpecFilter) ([]Charger, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Charger, error)
}
