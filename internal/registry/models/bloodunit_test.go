package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "hemotrace/pkg/domain-errors"
)

func newTestUnit(t *testing.T) (*BloodUnit, time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	unit, err := NewBloodUnit("donor-1", "institution-1", "whole_blood_400ml", 400, now)
	require.NoError(t, err)
	return unit, now
}

func TestNewBloodUnit(t *testing.T) {
	t.Run("constructs a donated unit in institution custody", func(t *testing.T) {
		unit, now := newTestUnit(t)
		assert.Equal(t, StatusDonated, unit.Status)
		assert.EqualValues(t, "institution-1", unit.Custodian)
		assert.Equal(t, now, unit.DonationTime)
		assert.Equal(t, now.Add(ValidityWindow), unit.ExpiryTime)
		assert.Zero(t, unit.ID)
		assert.True(t, unit.UsedTime.IsZero())
	})

	t.Run("rejects empty donor", func(t *testing.T) {
		_, err := NewBloodUnit("", "institution-1", "whole_blood_400ml", 400, time.Now())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty custodian", func(t *testing.T) {
		_, err := NewBloodUnit("donor-1", "", "whole_blood_400ml", 400, time.Now())
		require.Error(t, err)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewBloodUnit("donor-1", "institution-1", "whole_blood_400ml", 0, time.Now())
		require.Error(t, err)
	})
}

func TestBloodUnitCanTransitionTo(t *testing.T) {
	t.Run("terminal unit answers conflict", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		unit.Status = StatusUsed
		err := unit.CanTransitionTo(StatusExpired)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("disallowed move answers invalid transition", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		err := unit.CanTransitionTo(StatusStored)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	t.Run("allowed move passes", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		assert.NoError(t, unit.CanTransitionTo(StatusTesting))
	})
}

func TestApplyTransition(t *testing.T) {
	t.Run("sets custodian to the acting caller", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		unit.ApplyTransition(StatusTesting, "lab-1")
		assert.Equal(t, StatusTesting, unit.Status)
		assert.EqualValues(t, "lab-1", unit.Custodian)
	})

	t.Run("reaching stored clears the custodian", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		unit.Status = StatusQualified
		unit.ApplyTransition(StatusStored, "warehouse-1")
		assert.Equal(t, StatusStored, unit.Status)
		assert.True(t, unit.Custodian.IsNil())
	})

	t.Run("leaving stored re-sets the custodian", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		unit.Status = StatusStored
		unit.Custodian = ""
		unit.ApplyTransition(StatusDistributed, "hospital-1")
		assert.EqualValues(t, "hospital-1", unit.Custodian)
	})
}

func TestCanUse(t *testing.T) {
	t.Run("only distributed units can be used", func(t *testing.T) {
		unit, now := newTestUnit(t)
		err := unit.CanUse(now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("expired validity window is rejected", func(t *testing.T) {
		unit, now := newTestUnit(t)
		unit.Status = StatusDistributed
		err := unit.CanUse(now.Add(ValidityWindow + time.Hour))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeExpired))
	})

	t.Run("usable exactly at the expiry instant", func(t *testing.T) {
		unit, _ := newTestUnit(t)
		unit.Status = StatusDistributed
		assert.NoError(t, unit.CanUse(unit.ExpiryTime))
	})
}

func TestApplyUsage(t *testing.T) {
	unit, now := newTestUnit(t)
	unit.Status = StatusDistributed
	usedAt := now.Add(10 * 24 * time.Hour)

	unit.ApplyUsage("hospital-1", "patient-hash-abc", "surgery", usedAt)

	assert.Equal(t, StatusUsed, unit.Status)
	assert.EqualValues(t, "hospital-1", unit.Hospital)
	assert.EqualValues(t, "hospital-1", unit.Custodian)
	assert.Equal(t, usedAt, unit.UsedTime)
	assert.Equal(t, "patient-hash-abc", unit.PatientHash)
	assert.Equal(t, "surgery", unit.Purpose)
}
