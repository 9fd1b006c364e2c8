package models

import (
	id "hemotrace/pkg/domain"
)

// Typed payloads for the notifications the ledger emits. The audit emitter
// flattens these into audit.Event records.

type DonorRegistered struct {
	Donor     id.Identity
	BloodType string
}

type DonationRegistered struct {
	Donor       id.Identity
	BloodUnitID uint64
	Institution id.Identity
}

type PointsMinted struct {
	Donor  id.Identity
	Points int64
	Reason string
}

type StatusUpdated struct {
	BloodUnitID uint64
	From        Status
	To          Status
	Actor       id.Identity
	Donor       id.Identity
}

type BloodTransferred struct {
	BloodUnitID uint64
	From        id.Identity
	To          id.Identity
	Donor       id.Identity
}

type BloodUsed struct {
	BloodUnitID uint64
	Hospital    id.Identity
	Donor       id.Identity
}
