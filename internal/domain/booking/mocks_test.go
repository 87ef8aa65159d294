package booking

import (
	"context"
	"time"

	"chargeshare/internal/domain/charger"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindConflicts(ctx context.Context, chargerID string, start, end time.Time, excludeID string) ([]Booking, error) {
	args := m.Called(ctx, chargerID, start, end, excludeID)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) CreateIfNoConflict(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) TransitionIfNoConflict(ctx context.Context, b *Booking, from Status, version int) error {
	return m.Called(ctx, b, from, version).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]Booking, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) UpcomingForCharger(ctx context.Context, chargerID string, now time.Time, limit int) ([]Booking, error) {
	args := m.Called(ctx, chargerID, now, limit)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Booking, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) (*Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) MarkReviewed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) DueForActivation(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRepository) DueForCompletion(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]Booking), args.Error(1)
}

type MockChargers struct {
	mock.Mock
}

func (m *MockChargers) GetByID(ctx context.Context, id string) (*charger.Charger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charger.Charger), args.Error(1)
}
