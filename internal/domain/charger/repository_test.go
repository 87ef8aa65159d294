package charger

import (
	"context"
	"testing"

	"chargeshare/internal/database"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type RepositorySuite struct {
	suite.Suite
	repo Repository
	ctx  context.Context
}

func (s *RepositorySuite) SetupTest() {
	db, err := database.Connect(":memory:", zap.NewNop())
	s.Require().NoError(err)
	s.Require().NoError(AutoMigrate(db))

	s.repo = NewRepository(db)
	s.ctx = context.Background()
}

func (s *RepositorySuite) seed(id string, status Status, typ Type, conn Connector) *Charger {
	c := &Charger{
		ID:            id,
		OwnerID:       "owner-1",
		Title:         "Driveway " + id,
		ChargerType:   typ,
		ConnectorType: conn,
		PowerKW:       7.2,
		HourlyRate:    5,
		Windows:       mondayWindow(),
		Status:        status,
	}
	s.Require().NoError(s.repo.Create(s.ctx, c))
	return c
}

func (s *RepositorySuite) TestCreateAndGet() {
	s.seed("c-1", StatusApproved, TypeLevel2, ConnectorJ1772)

	got, err := s.repo.GetByID(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Equal("owner-1", got.OwnerID)
	s.Equal(TypeLevel2, got.ChargerType)
	s.Equal(mondayWindow(), got.Windows)
	s.False(got.CreatedAt.IsZero())
}

func (s *RepositorySuite) TestGetMissing() {
	_, err := s.repo.GetByID(s.ctx, "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestUpdateAvailability() {
	s.seed("c-1", StatusApproved, TypeLevel2, ConnectorJ1772)

	ws := Windows{{DayOfWeek: 3, StartTime: "09:00", EndTime: "11:30"}}
	s.Require().NoError(s.repo.UpdateAvailability(s.ctx, "c-1", ws))

	got, err := s.repo.GetByID(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Equal(ws, got.Windows)

	s.ErrorIs(s.repo.UpdateAvailability(s.ctx, "nope", ws), ErrNotFound)
}

func (s *RepositorySuite) TestUpdateStatus() {
	s.seed("c-1", StatusPending, TypeLevel2, ConnectorJ1772)

	s.Require().NoError(s.repo.UpdateStatus(s.ctx, "c-1", StatusApproved))
	got, err := s.repo.GetByID(s.ctx, "c-1")
	s.Require().NoError(err)
	s.Equal(StatusApproved, got.Status)

	s.ErrorIs(s.repo.UpdateStatus(s.ctx, "nope", StatusApproved), ErrNotFound)
}

func (s *RepositorySuite) TestFindBySpecs_OnlyApproved() {
	s.seed("c-1", StatusApproved, TypeLevel2, ConnectorJ1772)
	s.seed("c-2", StatusApproved, TypeDCFast, ConnectorCCS1)
	s.seed("c-3", StatusPending, TypeLevel2, ConnectorJ1772)
	s.seed("c-4", StatusInactive, TypeDCFast, ConnectorCCS1)

	all, err := s.repo.FindBySpecs(s.ctx, SpecFilter{})
	s.Require().NoError(err)
	s.Len(all, 2)

	fast, err := s.repo.FindBySpecs(s.ctx, SpecFilter{ChargerType: TypeDCFast})
	s.Require().NoError(err)
	s.Require().Len(fast, 1)
	s.Equal("c-2", fast[0].ID)

	j1772, err := s.repo.FindBySpecs(s.ctx, SpecFilter{ChargerType: TypeLevel2, ConnectorType: ConnectorJ1772})
	s.Require().NoError(err)
	s.Require().Len(j1772, 1)
	s.Equal("c-1", j1772[0].ID)

	none, err := s.repo.FindBySpecs(s.ctx, SpecFilter{ConnectorType: ConnectorNACS})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepositorySuite) TestListByOwner() {
	s.seed("c-1", StatusApproved, TypeLevel2, ConnectorJ1772)
	s.seed("c-2", StatusPending, TypeLevel2, ConnectorJ1772)

	mine, err := s.repo.ListByOwner(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Len(mine, 2)

	other, err := s.repo.ListByOwner(s.ctx, "owner-2")
	s.Require().NoError(err)
	s.Empty(other)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}
