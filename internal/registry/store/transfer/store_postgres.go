package transfer

import (
	"context"
	"database/sql"
	"fmt"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	"hemotrace/pkg/platform/tx"
)

// PostgresStore is the durable append-only transfer log. The serial primary
// key preserves insertion order per unit.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, record models.TransferRecord) error {
	query := `
		INSERT INTO transfer_records (blood_unit_id, ts, from_status, to_status, actor)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		record.BloodUnitID,
		record.Timestamp,
		record.FromStatus,
		record.ToStatus,
		record.Actor.String(),
	)
	if err != nil {
		return fmt.Errorf("insert transfer record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByBloodUnit(ctx context.Context, unitID uint64) ([]models.TransferRecord, error) {
	query := `
		SELECT blood_unit_id, ts, from_status, to_status, actor
		FROM transfer_records WHERE blood_unit_id = $1 ORDER BY id
	`
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("list transfer records: %w", err)
	}
	defer rows.Close()

	out := []models.TransferRecord{}
	for rows.Next() {
		var (
			record models.TransferRecord
			actor  string
		)
		if err := rows.Scan(&record.BloodUnitID, &record.Timestamp, &record.FromStatus, &record.ToStatus, &actor); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}
		record.Actor = id.Identity(actor)
		out = append(out, record)
	}
	return out, rows.Err()
}
