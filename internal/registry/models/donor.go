package models

import (
	"time"

	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
)

// Donor is the aggregate for one blood contributor.
//
// Invariants:
//   - Identity is non-empty and immutable after construction
//   - TotalPoints is monotone non-decreasing across the donor's lifetime
//   - DonationCount only increments
//   - FirstDonationDate is immutable after construction
//
// Donors are created on their first donation and never deleted.
type Donor struct {
	Identity          id.Identity `json:"identity"`
	BloodType         string      `json:"blood_type"`
	FirstDonationDate time.Time   `json:"first_donation_date"`
	LastDonationDate  time.Time   `json:"last_donation_date"`
	TotalPoints       int64       `json:"total_points"`
	DonationCount     int         `json:"donation_count"`
}

// NewDonor constructs the record written on a first donation.
func NewDonor(identity id.Identity, bloodType string, points int64, now time.Time) (*Donor, error) {
	if identity.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "donor identity cannot be empty")
	}
	if points < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "initial points cannot be negative")
	}
	return &Donor{
		Identity:          identity,
		BloodType:         bloodType,
		FirstDonationDate: now,
		LastDonationDate:  now,
		TotalPoints:       points,
		DonationCount:     1,
	}, nil
}

// Key returns the donor's hash-derived store key.
func (d *Donor) Key() id.DonorKey {
	return id.KeyOf(d.Identity)
}

// ApplyDonation records a subsequent donation: bumps the count, moves the
// last-donation date forward, and accrues points.
func (d *Donor) ApplyDonation(points int64, now time.Time) {
	d.DonationCount++
	d.LastDonationDate = now
	d.addPoints(points)
}

// AwardPoints accrues a bonus without touching donation bookkeeping.
func (d *Donor) AwardPoints(points int64) {
	d.addPoints(points)
}

// addPoints enforces monotonicity: negative awards are never applied.
func (d *Donor) addPoints(points int64) {
	if points > 0 {
		d.TotalPoints += points
	}
}
