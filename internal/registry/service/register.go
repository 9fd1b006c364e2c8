package service

import (
	"context"
	"errors"
	"time"

	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/points"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/requestcontext"
)

// RegisterDonation records one donation: creates or updates the donor,
// allocates the next blood unit, writes the creation record into the transfer
// log, and accrues points. Institution-only.
//
// Returns the assigned blood unit ID.
func (s *Service) RegisterDonation(ctx context.Context, donor id.Identity, bloodType, donationType string, amount uint32) (uint64, error) {
	caller := requestcontext.Caller(ctx)
	if err := s.requireInstitution(ctx, caller); err != nil {
		return 0, err
	}
	if donor.IsNil() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "donor identity cannot be empty")
	}

	award, err := points.Compute(donationType, amount)
	if err != nil {
		return 0, err
	}

	now := requestcontext.Now(ctx)
	key := id.KeyOf(donor)

	existing, err := s.donors.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	firstDonation := existing == nil

	totalAward := award
	var record *models.Donor
	if firstDonation {
		record, err = models.NewDonor(donor, bloodType, award, now)
		if err != nil {
			return 0, err
		}
	} else {
		record = existing
		if bonus, bonusErr := s.loyaltyBonus(ctx, key, now); bonusErr != nil {
			return 0, bonusErr
		} else {
			totalAward += bonus
		}
		record.ApplyDonation(totalAward, now)
	}

	unit, err := models.NewBloodUnit(donor, caller, donationType, amount, now)
	if err != nil {
		return 0, err
	}

	// All preconditions hold; the writes commit or roll back as one unit.
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.blood.Create(ctx, unit); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create blood unit")
		}
		if err := s.transfers.Append(ctx, models.TransferRecord{
			BloodUnitID: unit.ID,
			Timestamp:   now,
			FromStatus:  models.StatusDonated,
			ToStatus:    models.StatusDonated,
			Actor:       caller,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write creation record")
		}
		if firstDonation {
			if err := s.donors.Create(ctx, record); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create donor")
			}
			return nil
		}
		if err := s.donors.Update(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donor")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if firstDonation {
		s.auditEmitter.emitDonorRegistered(ctx, models.DonorRegistered{Donor: donor, BloodType: bloodType})
	}
	s.auditEmitter.emitDonationRegistered(ctx, models.DonationRegistered{
		Donor:       donor,
		BloodUnitID: unit.ID,
		Institution: caller,
	})
	s.auditEmitter.emitPointsMinted(ctx, models.PointsMinted{
		Donor:  donor,
		Points: totalAward,
		Reason: "donation:" + donationType,
	})
	s.auditEmitter.emitStatusUpdated(ctx, models.StatusUpdated{
		BloodUnitID: unit.ID,
		From:        models.StatusDonated,
		To:          models.StatusDonated,
		Actor:       caller,
		Donor:       donor,
	})

	s.incrementDonations()
	s.addPointsMinted(totalAward)
	return unit.ID, nil
}

// loyaltyBonus applies the trailing-window rule: counting the donation being
// registered, a donor with at least LoyaltyDonationThreshold donations inside
// the last LoyaltyWindowDays earns a flat bonus.
func (s *Service) loyaltyBonus(ctx context.Context, key id.DonorKey, now time.Time) (int64, error) {
	units, err := s.blood.ListByDonorKey(ctx, key)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donor blood units")
	}
	cutoff := now.AddDate(0, 0, -points.LoyaltyWindowDays)
	recent := 1 // the donation being registered
	for _, unit := range units {
		if !unit.DonationTime.Before(cutoff) {
			recent++
		}
	}
	if recent >= points.LoyaltyDonationThreshold {
		return points.LoyaltyBonus, nil
	}
	return 0, nil
}
