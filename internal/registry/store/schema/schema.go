// Package schema owns the registry's relational DDL. Statements are
// idempotent so startup and test bootstrap can both apply them.
package schema

import (
	"context"
	"database/sql"
	"fmt"
)

const DDL = `
CREATE TABLE IF NOT EXISTS donors (
	donor_key           TEXT PRIMARY KEY,
	identity            TEXT NOT NULL,
	blood_type          TEXT NOT NULL DEFAULT '',
	first_donation_date TIMESTAMPTZ NOT NULL,
	last_donation_date  TIMESTAMPTZ NOT NULL,
	total_points        BIGINT NOT NULL DEFAULT 0,
	donation_count      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blood_units (
	id            BIGSERIAL PRIMARY KEY,
	donor         TEXT NOT NULL,
	donor_key     TEXT NOT NULL,
	donation_time TIMESTAMPTZ NOT NULL,
	expiry_time   TIMESTAMPTZ NOT NULL,
	amount        BIGINT NOT NULL,
	status        SMALLINT NOT NULL,
	custodian     TEXT NOT NULL DEFAULT '',
	hospital      TEXT NOT NULL DEFAULT '',
	used_time     TIMESTAMPTZ,
	donation_type TEXT NOT NULL,
	purpose       TEXT NOT NULL DEFAULT '',
	patient_hash  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS blood_units_donor_key_idx ON blood_units (donor_key);

CREATE TABLE IF NOT EXISTS transfer_records (
	id            BIGSERIAL PRIMARY KEY,
	blood_unit_id BIGINT NOT NULL,
	ts            TIMESTAMPTZ NOT NULL,
	from_status   SMALLINT NOT NULL,
	to_status     SMALLINT NOT NULL,
	actor         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_records_unit_idx ON transfer_records (blood_unit_id);

CREATE TABLE IF NOT EXISTS access_roles (
	identity    TEXT PRIMARY KEY,
	institution BOOLEAN NOT NULL DEFAULT FALSE,
	hospital    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS query_grants (
	grantor TEXT NOT NULL,
	grantee TEXT NOT NULL,
	PRIMARY KEY (grantor, grantee)
);
`

// Apply runs the DDL against the database.
func Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, DDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
