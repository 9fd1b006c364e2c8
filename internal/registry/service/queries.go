package service

import (
	"context"
	"errors"
	"time"

	"hemotrace/internal/registry/cache"
	"hemotrace/internal/registry/models"
	"hemotrace/internal/registry/points"
	id "hemotrace/pkg/domain"
	dErrors "hemotrace/pkg/domain-errors"
	"hemotrace/pkg/platform/sentinel"
	"hemotrace/pkg/requestcontext"
)

// UsageInfo is the clinical-use view of a used blood unit.
type UsageInfo struct {
	BloodUnitID uint64      `json:"blood_unit_id"`
	Hospital    id.Identity `json:"hospital"`
	UsedTime    time.Time   `json:"used_time"`
	PatientHash string      `json:"patient_hash"`
	Purpose     string      `json:"purpose"`
}

// GetDonorInfo returns the donor aggregate. Readable by the donor themselves
// and their grantees.
func (s *Service) GetDonorInfo(ctx context.Context, donor id.Identity) (*models.Donor, error) {
	if err := s.requireDonorRead(ctx, donor); err != nil {
		return nil, err
	}
	return s.findDonor(ctx, donor)
}

// GetTotalPoints returns the donor's accrued points. Same visibility as
// GetDonorInfo.
func (s *Service) GetTotalPoints(ctx context.Context, donor id.Identity) (int64, error) {
	if err := s.requireDonorRead(ctx, donor); err != nil {
		return 0, err
	}
	record, err := s.findDonor(ctx, donor)
	if err != nil {
		return 0, err
	}
	return record.TotalPoints, nil
}

// QueryCreditLevel maps the donor's points onto the credit ladder. Same
// visibility as GetDonorInfo.
func (s *Service) QueryCreditLevel(ctx context.Context, donor id.Identity) (int, error) {
	total, err := s.GetTotalPoints(ctx, donor)
	if err != nil {
		return 0, err
	}
	return points.CreditLevel(total), nil
}

// GetDonorBloodIDs lists the donor's blood unit IDs in ascending order.
// Readable by the donor, their grantees, and institutions.
func (s *Service) GetDonorBloodIDs(ctx context.Context, donor id.Identity) ([]uint64, error) {
	caller := requestcontext.Caller(ctx)
	allowed, err := s.access.CanReadDonor(ctx, caller, donor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if allowed, err = s.access.IsInstitution(ctx, caller); err != nil {
			return nil, err
		}
	}
	if !allowed {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "caller may not read this donor's blood units")
	}

	units, err := s.blood.ListByDonorKey(ctx, id.KeyOf(donor))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donor blood units")
	}
	ids := make([]uint64, 0, len(units))
	for _, unit := range units {
		ids = append(ids, unit.ID)
	}
	return ids, nil
}

// GetBloodInfo returns the full blood unit view. Readable by the unit's
// donor, their grantees, institutions, and hospitals.
func (s *Service) GetBloodInfo(ctx context.Context, unitID uint64) (*models.BloodUnit, error) {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnitRead(ctx, unit, true); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetBloodTransfers returns the unit's append-only history, oldest first.
// Same visibility as GetBloodInfo.
func (s *Service) GetBloodTransfers(ctx context.Context, unitID uint64) ([]models.TransferRecord, error) {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnitRead(ctx, unit, true); err != nil {
		return nil, err
	}
	records, err := s.transfers.ListByBloodUnit(ctx, unitID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfer records")
	}
	return records, nil
}

// GetBloodUsageInfo returns the clinical-use fields of a used unit. Readable
// by the unit's donor, their grantees, and hospitals; the unit must have been
// used.
func (s *Service) GetBloodUsageInfo(ctx context.Context, unitID uint64) (*UsageInfo, error) {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.requireUnitRead(ctx, unit, false); err != nil {
		return nil, err
	}
	if unit.Status != models.StatusUsed {
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"blood unit is %s, usage info exists only for Used units", unit.Status.Name())
	}
	return &UsageInfo{
		BloodUnitID: unit.ID,
		Hospital:    unit.Hospital,
		UsedTime:    unit.UsedTime,
		PatientHash: unit.PatientHash,
		Purpose:     unit.Purpose,
	}, nil
}

// GetBloodInfoBasic returns the public projection of a unit, served through
// the cache when one is configured.
func (s *Service) GetBloodInfoBasic(ctx context.Context, unitID uint64) (*cache.BasicInfo, error) {
	if s.cache != nil {
		info, err := s.cache.Find(ctx, unitID)
		if err != nil && s.logger != nil {
			s.logger.DebugContext(ctx, "basic info cache read failed",
				"blood_unit_id", unitID,
				"error", err,
			)
		}
		if info != nil {
			return info, nil
		}
	}

	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	info := cache.BasicInfo{
		Status:       uint8(unit.Status),
		StatusName:   unit.Status.Name(),
		ExpiryTime:   unit.ExpiryTime,
		Location:     unit.Custodian.String(),
		DonationType: unit.DonationType,
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, unitID, info); err != nil && s.logger != nil {
			s.logger.DebugContext(ctx, "basic info cache write failed",
				"blood_unit_id", unitID,
				"error", err,
			)
		}
	}
	return &info, nil
}

// GetBloodCount returns how many units the registry has ever recorded.
func (s *Service) GetBloodCount(ctx context.Context) (uint64, error) {
	count, err := s.blood.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count blood units")
	}
	return count, nil
}

// IsAuthorizedForBlood reports whether an identity may read the full view of
// a unit. It never errors on missing permission, only on missing units.
func (s *Service) IsAuthorizedForBlood(ctx context.Context, caller id.Identity, unitID uint64) (bool, error) {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return false, err
	}
	return s.unitReadable(ctx, caller, unit, true)
}

// requireDonorRead admits the donor themselves and their grantees.
func (s *Service) requireDonorRead(ctx context.Context, donor id.Identity) error {
	caller := requestcontext.Caller(ctx)
	allowed, err := s.access.CanReadDonor(ctx, caller, donor)
	if err != nil {
		return err
	}
	if !allowed {
		return dErrors.New(dErrors.CodeUnauthorized, "caller may not read this donor")
	}
	return nil
}

// requireUnitRead admits the unit's donor, their grantees, hospitals, and,
// when includeInstitutions is set, institutions.
func (s *Service) requireUnitRead(ctx context.Context, unit *models.BloodUnit, includeInstitutions bool) error {
	caller := requestcontext.Caller(ctx)
	allowed, err := s.unitReadable(ctx, caller, unit, includeInstitutions)
	if err != nil {
		return err
	}
	if !allowed {
		return dErrors.New(dErrors.CodeUnauthorized, "caller may not read this blood unit")
	}
	return nil
}

func (s *Service) unitReadable(ctx context.Context, caller id.Identity, unit *models.BloodUnit, includeInstitutions bool) (bool, error) {
	allowed, err := s.access.CanReadDonor(ctx, caller, unit.Donor)
	if err != nil {
		return false, err
	}
	if allowed {
		return true, nil
	}
	if includeInstitutions {
		if allowed, err = s.access.IsInstitution(ctx, caller); err != nil {
			return false, err
		}
		if allowed {
			return true, nil
		}
	}
	return s.access.IsHospital(ctx, caller)
}

func (s *Service) findDonor(ctx context.Context, donor id.Identity) (*models.Donor, error) {
	record, err := s.donors.FindByKey(ctx, id.KeyOf(donor))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "donor is not registered")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor")
	}
	return record, nil
}

func (s *Service) findUnit(ctx context.Context, unitID uint64) (*models.BloodUnit, error) {
	unit, err := s.blood.FindByID(ctx, unitID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "blood unit %d does not exist", unitID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blood unit")
	}
	return unit, nil
}
