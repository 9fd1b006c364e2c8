package blood

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/platform/tx"
)

// PostgresStore persists blood units. The ID sequence comes from a BIGSERIAL
// column, which gives the strictly-increasing never-reused allocation the
// registry requires.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, unit *models.BloodUnit) error {
	query := `
		INSERT INTO blood_units (donor, donor_key, donation_time, expiry_time, amount, status, custodian, hospital, used_time, donation_type, purpose, patient_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := tx.Exec(ctx, s.db).QueryRowContext(ctx, query,
		unit.Donor.String(),
		unit.DonorKey().String(),
		unit.DonationTime,
		unit.ExpiryTime,
		unit.Amount,
		unit.Status,
		unit.Custodian.String(),
		unit.Hospital.String(),
		nullableTime(unit.UsedTime),
		unit.DonationType,
		unit.Purpose,
		unit.PatientHash,
	).Scan(&unit.ID)
	if err != nil {
		return fmt.Errorf("insert blood unit: %w", err)
	}
	return nil
}

const unitColumns = `id, donor, donation_time, expiry_time, amount, status, custodian, hospital, used_time, donation_type, purpose, patient_hash`

func (s *PostgresStore) FindByID(ctx context.Context, unitID uint64) (*models.BloodUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM blood_units WHERE id = $1`
	unit, err := scanUnit(tx.Exec(ctx, s.db).QueryRowContext(ctx, query, unitID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select blood unit: %w", err)
	}
	return unit, nil
}

func (s *PostgresStore) Update(ctx context.Context, unit *models.BloodUnit) error {
	query := `
		UPDATE blood_units
		SET status = $2, custodian = $3, hospital = $4, used_time = $5, purpose = $6, patient_hash = $7
		WHERE id = $1
	`
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		unit.ID,
		unit.Status,
		unit.Custodian.String(),
		unit.Hospital.String(),
		nullableTime(unit.UsedTime),
		unit.Purpose,
		unit.PatientHash,
	)
	if err != nil {
		return fmt.Errorf("update blood unit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update blood unit rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByDonorKey(ctx context.Context, key id.DonorKey) ([]*models.BloodUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM blood_units WHERE donor_key = $1 ORDER BY id`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, key.String())
	if err != nil {
		return nil, fmt.Errorf("list blood units: %w", err)
	}
	defer rows.Close()

	var out []*models.BloodUnit
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blood unit: %w", err)
		}
		out = append(out, unit)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var count uint64
	if err := tx.Exec(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM blood_units`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count blood units: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUnit(row rowScanner) (*models.BloodUnit, error) {
	var (
		unit      models.BloodUnit
		donor     string
		custodian string
		hospital  string
		usedTime  sql.NullTime
	)
	err := row.Scan(
		&unit.ID,
		&donor,
		&unit.DonationTime,
		&unit.ExpiryTime,
		&unit.Amount,
		&unit.Status,
		&custodian,
		&hospital,
		&usedTime,
		&unit.DonationType,
		&unit.Purpose,
		&unit.PatientHash,
	)
	if err != nil {
		return nil, err
	}
	unit.Donor = id.Identity(donor)
	unit.Custodian = id.Identity(custodian)
	unit.Hospital = id.Identity(hospital)
	if usedTime.Valid {
		unit.UsedTime = usedTime.Time
	}
	return &unit, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
