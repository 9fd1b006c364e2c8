package service

import (
	"context"
	"errors"

	"hemotrace/internal/registry/models"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/requestcontext"
)

// UpdateStatus moves a blood unit along the lifecycle. Callers must hold the
// institution or hospital role, or currently hold the unit. The transition is
// validated before anything is written; on success a transfer record is
// appended and the basic-view cache entry dropped.
func (s *Service) UpdateStatus(ctx context.Context, unitID uint64, next models.Status) error {
	caller := requestcontext.Caller(ctx)

	unit, err := s.blood.FindByID(ctx, unitID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "blood unit %d does not exist", unitID)
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood unit")
	}
	if unit.Status.IsTerminal() {
		return dErrors.Newf(dErrors.CodeConflict, "blood unit is already %s", unit.Status.Name())
	}
	if err := s.requireLifecycleActor(ctx, caller, unit); err != nil {
		return err
	}
	if err := unit.CanTransitionTo(next); err != nil {
		return err
	}

	from := unit.Status
	previousCustodian := unit.Custodian
	unit.ApplyTransition(next, caller)

	now := requestcontext.Now(ctx)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.blood.Update(ctx, unit); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update blood unit")
		}
		if err := s.transfers.Append(ctx, models.TransferRecord{
			BloodUnitID: unit.ID,
			Timestamp:   now,
			FromStatus:  from,
			ToStatus:    next,
			Actor:       caller,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append transfer record")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateBasicInfo(ctx, unit.ID)

	s.auditEmitter.emitStatusUpdated(ctx, models.StatusUpdated{
		BloodUnitID: unit.ID,
		From:        from,
		To:          next,
		Actor:       caller,
		Donor:       unit.Donor,
	})
	if unit.Custodian != previousCustodian {
		s.auditEmitter.emitBloodTransferred(ctx, models.BloodTransferred{
			BloodUnitID: unit.ID,
			From:        previousCustodian,
			To:          unit.Custodian,
			Donor:       unit.Donor,
		})
	}

	s.observeTransition(from, next)
	return nil
}

// requireLifecycleActor admits institutions, hospitals, and the unit's
// current custodian.
func (s *Service) requireLifecycleActor(ctx context.Context, caller id.Identity, unit *models.BloodUnit) error {
	if !caller.IsNil() && caller == unit.Custodian {
		return nil
	}
	institution, err := s.access.IsInstitution(ctx, caller)
	if err != nil {
		return err
	}
	if institution {
		return nil
	}
	hospital, err := s.access.IsHospital(ctx, caller)
	if err != nil {
		return err
	}
	if hospital {
		return nil
	}
	return dErrors.New(dErrors.CodeUnauthorized, "caller may not move this blood unit")
}
