package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "hemotrace/pkg/domain-errors"
)

type AccessServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func (s *AccessServiceSuite) SetupTest() {
	s.service = New("owner-1", NewInMemoryRoleStore(), NewInMemoryGrantStore())
	s.ctx = context.Background()
}

func TestAccessServiceSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) TestIsOwner() {
	s.True(s.service.IsOwner("owner-1"))
	s.False(s.service.IsOwner("someone-else"))
	s.False(s.service.IsOwner(""))
}

func (s *AccessServiceSuite) TestSetInstitution() {
	s.Run("owner authorizes and revokes", func() {
		s.Require().NoError(s.service.SetInstitution(s.ctx, "owner-1", "hospital-blood-bank", true))
		ok, err := s.service.IsInstitution(s.ctx, "hospital-blood-bank")
		s.Require().NoError(err)
		s.True(ok)

		s.Require().NoError(s.service.SetInstitution(s.ctx, "owner-1", "hospital-blood-bank", false))
		ok, err = s.service.IsInstitution(s.ctx, "hospital-blood-bank")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("non-owner is rejected", func() {
		err := s.service.SetInstitution(s.ctx, "impostor", "somewhere", true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("empty address is rejected", func() {
		err := s.service.SetInstitution(s.ctx, "owner-1", "", true)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *AccessServiceSuite) TestSetHospital() {
	s.Require().NoError(s.service.SetHospital(s.ctx, "owner-1", "city-hospital", true))
	ok, err := s.service.IsHospital(s.ctx, "city-hospital")
	s.Require().NoError(err)
	s.True(ok)

	// Roles are independent sets.
	ok, err = s.service.IsInstitution(s.ctx, "city-hospital")
	s.Require().NoError(err)
	s.False(ok)

	err = s.service.SetHospital(s.ctx, "impostor", "city-hospital", false)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AccessServiceSuite) TestGrantQuery() {
	s.Run("grant opens the donor record to the grantee", func() {
		s.Require().NoError(s.service.GrantQuery(s.ctx, "donor-1", "researcher-1"))

		ok, err := s.service.CanReadDonor(s.ctx, "researcher-1", "donor-1")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("grants are directional", func() {
		s.Require().NoError(s.service.GrantQuery(s.ctx, "donor-1", "researcher-1"))

		ok, err := s.service.CanReadDonor(s.ctx, "donor-1", "researcher-1")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("self-grant is rejected", func() {
		err := s.service.GrantQuery(s.ctx, "donor-1", "donor-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("empty grantee is rejected", func() {
		err := s.service.GrantQuery(s.ctx, "donor-1", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *AccessServiceSuite) TestRevokeQuery() {
	s.Require().NoError(s.service.GrantQuery(s.ctx, "donor-1", "researcher-1"))
	s.Require().NoError(s.service.RevokeQuery(s.ctx, "donor-1", "researcher-1"))

	ok, err := s.service.CanReadDonor(s.ctx, "researcher-1", "donor-1")
	s.Require().NoError(err)
	s.False(ok, "revocation takes effect immediately")

	// Revoking an absent grant is a no-op.
	s.Require().NoError(s.service.RevokeQuery(s.ctx, "donor-1", "researcher-1"))
}

func (s *AccessServiceSuite) TestCanReadDonor() {
	s.Run("donors always read themselves", func() {
		ok, err := s.service.CanReadDonor(s.ctx, "donor-1", "donor-1")
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("strangers cannot read", func() {
		ok, err := s.service.CanReadDonor(s.ctx, "stranger", "donor-1")
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("anonymous caller cannot read", func() {
		ok, err := s.service.CanReadDonor(s.ctx, "", "donor-1")
		s.Require().NoError(err)
		s.False(ok)
	})
}
