package donor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/sentinel"
)

type DonorStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DonorStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDonorStoreSuite(t *testing.T) {
	suite.Run(t, new(DonorStoreSuite))
}

func (s *DonorStoreSuite) newDonor(identity id.Identity) *models.Donor {
	donor, err := models.NewDonor(identity, "O-", 100, time.Now().UTC())
	s.Require().NoError(err)
	return donor
}

func (s *DonorStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds by key", func() {
		donor := s.newDonor("donor-1")
		s.Require().NoError(s.store.Create(s.ctx, donor))

		found, err := s.store.FindByKey(s.ctx, donor.Key())
		s.Require().NoError(err)
		s.Equal(donor.Identity, found.Identity)
		s.EqualValues(100, found.TotalPoints)
	})

	s.Run("duplicate create returns ErrConflict", func() {
		donor := s.newDonor("donor-1")
		s.Require().NoError(s.store.Create(s.ctx, donor))
		s.Require().ErrorIs(s.store.Create(s.ctx, donor), sentinel.ErrConflict)
	})

	s.Run("unknown key returns ErrNotFound", func() {
		_, err := s.store.FindByKey(s.ctx, id.KeyOf("nobody"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *DonorStoreSuite) TestUpdate() {
	s.Run("persists point accrual", func() {
		donor := s.newDonor("donor-1")
		s.Require().NoError(s.store.Create(s.ctx, donor))

		donor.ApplyDonation(400, time.Now().UTC())
		s.Require().NoError(s.store.Update(s.ctx, donor))

		found, err := s.store.FindByKey(s.ctx, donor.Key())
		s.Require().NoError(err)
		s.EqualValues(500, found.TotalPoints)
		s.Equal(2, found.DonationCount)
	})

	s.Run("unknown donor returns ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Update(s.ctx, s.newDonor("ghost")), sentinel.ErrNotFound)
	})
}

func (s *DonorStoreSuite) TestCopySemantics() {
	donor := s.newDonor("donor-1")
	s.Require().NoError(s.store.Create(s.ctx, donor))

	found, err := s.store.FindByKey(s.ctx, donor.Key())
	s.Require().NoError(err)
	found.TotalPoints = 9999

	again, err := s.store.FindByKey(s.ctx, donor.Key())
	s.Require().NoError(err)
	s.EqualValues(100, again.TotalPoints, "mutating a returned record must not touch the store")
}
