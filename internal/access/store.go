package access

import (
	"context"

	id "hemotrace/pkg/domain"
)

// RoleStore holds the two independent role sets: authorized institutions and
// authorized hospitals. Membership is owner-controlled.
type RoleStore interface {
	SetInstitution(ctx context.Context, identity id.Identity, authorized bool) error
	IsInstitution(ctx context.Context, identity id.Identity) (bool, error)
	SetHospital(ctx context.Context, identity id.Identity, authorized bool) error
	IsHospital(ctx context.Context, identity id.Identity) (bool, error)
}

// GrantStore holds the directed donor→grantee read-access relation.
type GrantStore interface {
	Grant(ctx context.Context, grantor, grantee id.Identity) error
	Revoke(ctx context.Context, grantor, grantee id.Identity) error
	HasGrant(ctx context.Context, grantor, grantee id.Identity) (bool, error)
}
