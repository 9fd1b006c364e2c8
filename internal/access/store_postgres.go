package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "hemotrace/pkg/domain"
)

// PostgresRoleStore keeps role membership in the access_roles table, one row
// per identity with a boolean per role.
type PostgresRoleStore struct {
	db *sql.DB
}

func NewPostgresRoleStore(db *sql.DB) *PostgresRoleStore {
	return &PostgresRoleStore{db: db}
}

func (s *PostgresRoleStore) SetInstitution(ctx context.Context, identity id.Identity, authorized bool) error {
	return s.setRole(ctx, identity, "institution", authorized)
}

func (s *PostgresRoleStore) IsInstitution(ctx context.Context, identity id.Identity) (bool, error) {
	return s.hasRole(ctx, identity, "institution")
}

func (s *PostgresRoleStore) SetHospital(ctx context.Context, identity id.Identity, authorized bool) error {
	return s.setRole(ctx, identity, "hospital", authorized)
}

func (s *PostgresRoleStore) IsHospital(ctx context.Context, identity id.Identity) (bool, error) {
	return s.hasRole(ctx, identity, "hospital")
}

func (s *PostgresRoleStore) setRole(ctx context.Context, identity id.Identity, role string, authorized bool) error {
	query := fmt.Sprintf(`
		INSERT INTO access_roles (identity, %s) VALUES ($1, $2)
		ON CONFLICT (identity) DO UPDATE SET %s = $2
	`, role, role)
	if _, err := s.db.ExecContext(ctx, query, identity.String(), authorized); err != nil {
		return fmt.Errorf("set %s role: %w", role, err)
	}
	return nil
}

func (s *PostgresRoleStore) hasRole(ctx context.Context, identity id.Identity, role string) (bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM access_roles WHERE identity = $1`, role)
	var authorized bool
	err := s.db.QueryRowContext(ctx, query, identity.String()).Scan(&authorized)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s role: %w", role, err)
	}
	return authorized, nil
}

// PostgresGrantStore keeps the donor→grantee relation in query_grants. Grant
// and Revoke are idempotent.
type PostgresGrantStore struct {
	db *sql.DB
}

func NewPostgresGrantStore(db *sql.DB) *PostgresGrantStore {
	return &PostgresGrantStore{db: db}
}

func (s *PostgresGrantStore) Grant(ctx context.Context, grantor, grantee id.Identity) error {
	query := `
		INSERT INTO query_grants (grantor, grantee) VALUES ($1, $2)
		ON CONFLICT (grantor, grantee) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, grantor.String(), grantee.String()); err != nil {
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

func (s *PostgresGrantStore) Revoke(ctx context.Context, grantor, grantee id.Identity) error {
	query := `DELETE FROM query_grants WHERE grantor = $1 AND grantee = $2`
	if _, err := s.db.ExecContext(ctx, query, grantor.String(), grantee.String()); err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

func (s *PostgresGrantStore) HasGrant(ctx context.Context, grantor, grantee id.Identity) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM query_grants WHERE grantor = $1 AND grantee = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, grantor.String(), grantee.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return exists, nil
}
