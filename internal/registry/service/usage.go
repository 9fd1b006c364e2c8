package service

import (
	"context"
	"errors"

	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/points"
	dErrors "hemotrace/pkg/domain-errors"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/requestcontext"
)

// RecordUsage marks a Distributed unit as clinically used. Hospital-only.
// The usage fields are written exactly once; the donor earns the usage bonus.
func (s *Service) RecordUsage(ctx context.Context, unitID uint64, patientHash, purpose string) error {
	caller := requestcontext.Caller(ctx)

	unit, err := s.blood.FindByID(ctx, unitID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "blood unit %d does not exist", unitID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood unit")
	}
	if unit.Status != models.StatusDistributed {
		return dErrors.Newf(dErrors.CodeConflict,
			"blood unit is %s, only Distributed units can be used", unit.Status.Name())
	}
	if err := s.requireHospital(ctx, caller); err != nil {
		return err
	}
	now := requestcontext.Now(ctx)
	if err := unit.CanUse(now); err != nil {
		return err
	}

	donor, err := s.donors.FindByKey(ctx, unit.DonorKey())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}

	unit.ApplyUsage(caller, patientHash, purpose, now)
	donor.AwardPoints(points.UsageBonus)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.blood.Update(ctx, unit); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update blood unit")
		}
		if err := s.transfers.Append(ctx, models.TransferRecord{
			BloodUnitID: unit.ID,
			Timestamp:   now,
			FromStatus:  models.StatusDistributed,
			ToStatus:    models.StatusUsed,
			Actor:       caller,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append transfer record")
		}
		if err := s.donors.Update(ctx, donor); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update donor")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateBasicInfo(ctx, unit.ID)

	s.auditEmitter.emitBloodUsed(ctx, models.BloodUsed{
		BloodUnitID: unit.ID,
		Hospital:    caller,
		Donor:       unit.Donor,
	})
	s.auditEmitter.emitStatusUpdated(ctx, models.StatusUpdated{
		BloodUnitID: unit.ID,
		From:        models.StatusDistributed,
		To:          models.StatusUsed,
		Actor:       caller,
		Donor:       unit.Donor,
	})
	s.auditEmitter.emitPointsMinted(ctx, models.PointsMinted{
		Donor:  unit.Donor,
		Points: points.UsageBonus,
		Reason: "usage",
	})

	s.observeTransition(models.StatusDistributed, models.StatusUsed)
	s.incrementUnitsUsed()
	s.addPointsMinted(points.UsageBonus)
	return nil
}
