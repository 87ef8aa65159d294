package charger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	repo         Repository
	availability Availability
	log          *zap.Logger
}

func NewService(repo Repository, availability Availability, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		availability: availability,
		log:          log,
	}
}

// Create lists a new charger for ownerID. It starts pending moderation.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateChargerRequest) (*Charger, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if req.HourlyRate <= 0 {
		return nil, fmt.Errorf("%w: hourly rate must be positive", ErrValidation)
	}
	windows := req.Windows
	if windows == nil {
		windows = Windows{}
	}
	if err := windows.Validate(); err != nil {
		return nil, err
	}

	c := &Charger{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		ChargerType:   req.ChargerType,
		ConnectorType: req.ConnectorType,
		PowerKW:       req.PowerKW,
		HourlyRate:    req.HourlyRate,
		Windows:       windows,
		Status:        StatusPending,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info("charger created", zap.String("charger_id", c.ID), zap.String("owner_id", ownerID))
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Charger, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByID satisfies the booking package's charger lookup.
func (s *Service) GetByID(ctx context.Context, id string) (*Charger, error) {
	return s.repo.GetByID(ctx, id)
}

// SetAvailability replaces the weekly windows. Only the owner may do it.
func (s *Service) SetAvailability(ctx context.Context, actorID, id string, windows Windows) (*Charger, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if windows == nil {
		windows = Windows{}
	}
	if err := windows.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvailability(ctx, id, windows); err != nil {
		return nil, err
	}
	c.Windows = windows

	s.log.Info("charger availability updated", zap.String("charger_id", id), zap.Int("windows", len(windows)))
	return c, nil
}

// SetStatus is the moderation hook.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Charger, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.Info("charger status changed", zap.String("charger_id", id), zap.String("status", string(status)))
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindBySpecs(ctx context.Context, f SpecFilter) ([]Charger, error) {
	return s.repo.FindBySpecs(ctx, f)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Charger, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// IsOpen reports whether the charger's windows cover [start, end). Moderation
// status is not considered.
func (s *Service) IsOpen(ctx context.Context, id string, start, end time.Time) (bool, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return s.availability.IsOpenAt(c.Windows, start, end), nil
}
