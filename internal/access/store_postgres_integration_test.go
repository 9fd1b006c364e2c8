//go:build integration

package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"hemotrace/internal/access"
	"hemotrace/pkg/testutil/containers"
)

type PostgresAccessSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	roles    *access.PostgresRoleStore
	grants   *access.PostgresGrantStore
}

func TestPostgresAccessSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAccessSuite))
}

func (s *PostgresAccessSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.roles = access.NewPostgresRoleStore(s.postgres.DB)
	s.grants = access.NewPostgresGrantStore(s.postgres.DB)
}

func (s *PostgresAccessSuite) TearDownSuite() {
	_ = s.postgres.DB.Close()
	_ = s.postgres.Container.Terminate(context.Background())
}

func (s *PostgresAccessSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background()))
}

func (s *PostgresAccessSuite) TestRoleLifecycle() {
	ctx := context.Background()

	ok, err := s.roles.IsInstitution(ctx, "blood-bank")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.roles.SetInstitution(ctx, "blood-bank", true))
	ok, err = s.roles.IsInstitution(ctx, "blood-bank")
	s.Require().NoError(err)
	s.True(ok)

	// Roles are independent columns on the same row.
	ok, err = s.roles.IsHospital(ctx, "blood-bank")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.roles.SetHospital(ctx, "blood-bank", true))
	s.Require().NoError(s.roles.SetInstitution(ctx, "blood-bank", false))

	ok, err = s.roles.IsHospital(ctx, "blood-bank")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.roles.IsInstitution(ctx, "blood-bank")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PostgresAccessSuite) TestGrantLifecycle() {
	ctx := context.Background()

	ok, err := s.grants.HasGrant(ctx, "donor-1", "researcher-1")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.grants.Grant(ctx, "donor-1", "researcher-1"))
	// Granting twice is idempotent.
	s.Require().NoError(s.grants.Grant(ctx, "donor-1", "researcher-1"))

	ok, err = s.grants.HasGrant(ctx, "donor-1", "researcher-1")
	s.Require().NoError(err)
	s.True(ok)

	// Direction matters.
	ok, err = s.grants.HasGrant(ctx, "researcher-1", "donor-1")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.grants.Revoke(ctx, "donor-1", "researcher-1"))
	ok, err = s.grants.HasGrant(ctx, "donor-1", "researcher-1")
	s.Require().NoError(err)
	s.False(ok)
}
