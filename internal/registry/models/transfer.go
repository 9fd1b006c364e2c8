package models

import (
	"time"

	id "hemotrace/pkg/domain"
)

// TransferRecord is one append-only log entry in a blood unit's history.
// One record is written at creation (Donated→Donated) and one per status
// change after that. Records are never mutated or deleted and are ordered by
// insertion.
type TransferRecord struct {
	BloodUnitID uint64      `json:"blood_unit_id"`
	Timestamp   time.Time   `json:"timestamp"`
	FromStatus  Status      `json:"from_status"`
	ToStatus    Status      `json:"to_status"`
	Actor       id.Identity `json:"actor"`
}
