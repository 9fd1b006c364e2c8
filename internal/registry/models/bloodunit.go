package models

import (
	"time"

	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
)

// ValidityWindow is how long a unit stays usable after donation.
const ValidityWindow = 35 * 24 * time.Hour

// BloodUnit is one discrete, trackable donation instance.
//
// Invariants:
//   - ID > 0, unique, assigned in strictly increasing order by the store
//   - ID, Donor, DonationTime, DonationType and Amount are immutable after
//     construction
//   - Status only changes along Status.CanTransitionTo
//   - Usage fields (Hospital, UsedTime, PatientHash, Purpose) are set at most
//     once, on the Distributed→Used move, and never cleared
//   - Custodian is empty exactly while the unit sits in StatusStored
type BloodUnit struct {
	ID           uint64      `json:"id"`
	Donor        id.Identity `json:"donor"`
	DonationTime time.Time   `json:"donation_time"`
	ExpiryTime   time.Time   `json:"expiry_time"`
	Amount       uint32      `json:"amount"`
	Status       Status      `json:"status"`
	Custodian    id.Identity `json:"custodian"`
	Hospital     id.Identity `json:"hospital"`
	UsedTime     time.Time   `json:"used_time"`
	DonationType string      `json:"donation_type"`
	Purpose      string      `json:"purpose"`
	PatientHash  string      `json:"patient_hash"`
}

// NewBloodUnit constructs a freshly donated unit in custody of the
// registering institution. The ID is assigned by the store on create.
func NewBloodUnit(donor id.Identity, custodian id.Identity, donationType string, amount uint32, now time.Time) (*BloodUnit, error) {
	if donor.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "donor identity cannot be empty")
	}
	if custodian.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "custodian cannot be empty")
	}
	if amount == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "amount must be positive")
	}
	return &BloodUnit{
		Donor:        donor,
		DonationTime: now,
		ExpiryTime:   now.Add(ValidityWindow),
		Amount:       amount,
		Status:       StatusDonated,
		Custodian:    custodian,
		DonationType: donationType,
	}, nil
}

// DonorKey returns the unit owner's hash-derived key.
func (b *BloodUnit) DonorKey() id.DonorKey {
	return id.KeyOf(b.Donor)
}

// CanTransitionTo validates a status move against the guard.
// Returns an error so service code can surface the exact cause.
func (b *BloodUnit) CanTransitionTo(next Status) error {
	if b.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeConflict, "blood unit is already %s", b.Status.Name())
	}
	if !b.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"cannot move from %s to %s", b.Status.Name(), next.Name())
	}
	return nil
}

// ApplyTransition moves the unit to next under actor's custody. Reaching
// StatusStored clears the custodian: a warehoused unit is unowned.
// Call CanTransitionTo first.
func (b *BloodUnit) ApplyTransition(next Status, actor id.Identity) {
	b.Status = next
	if next == StatusStored {
		b.Custodian = ""
	} else {
		b.Custodian = actor
	}
}

// CanUse checks the preconditions of the usage recording operation other
// than caller role: exact Distributed status, not past expiry.
func (b *BloodUnit) CanUse(now time.Time) error {
	if b.Status != StatusDistributed {
		return dErrors.Newf(dErrors.CodeConflict,
			"blood unit is %s, only Distributed units can be used", b.Status.Name())
	}
	if now.After(b.ExpiryTime) {
		return dErrors.New(dErrors.CodeExpired, "blood unit validity window has passed")
	}
	return nil
}

// ApplyUsage records clinical use. Usage fields are written exactly once
// here and never cleared. Call CanUse first.
func (b *BloodUnit) ApplyUsage(hospital id.Identity, patientHash, purpose string, now time.Time) {
	b.Status = StatusUsed
	b.Custodian = hospital
	b.Hospital = hospital
	b.UsedTime = now
	b.PatientHash = patientHash
	b.Purpose = purpose
}
