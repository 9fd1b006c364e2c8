package donor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/platform/tx"
)

// PostgresStore persists donors keyed by donor key. Production counterpart of
// InMemory behind the same service interface.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, donor *models.Donor) error {
	query := `
		INSERT INTO donors (donor_key, identity, blood_type, first_donation_date, last_donation_date, total_points, donation_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		donor.Key().String(),
		donor.Identity.String(),
		donor.BloodType,
		donor.FirstDonationDate,
		donor.LastDonationDate,
		donor.TotalPoints,
		donor.DonationCount,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByKey(ctx context.Context, key id.DonorKey) (*models.Donor, error) {
	query := `
		SELECT identity, blood_type, first_donation_date, last_donation_date, total_points, donation_count
		FROM donors WHERE donor_key = $1
	`
	var (
		donor    models.Donor
		identity string
	)
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, query, key.String()).Scan(
		&identity,
		&donor.BloodType,
		&donor.FirstDonationDate,
		&donor.LastDonationDate,
		&donor.TotalPoints,
		&donor.DonationCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select donor: %w", err)
	}
	donor.Identity = id.Identity(identity)
	return &donor, nil
}

func (s *PostgresStore) Update(ctx context.Context, donor *models.Donor) error {
	query := `
		UPDATE donors
		SET last_donation_date = $2, total_points = $3, donation_count = $4
		WHERE donor_key = $1
	`
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		donor.Key().String(),
		donor.LastDonationDate,
		donor.TotalPoints,
		donor.DonationCount,
	)
	if err != nil {
		return fmt.Errorf("update donor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update donor rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
