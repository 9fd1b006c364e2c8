package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemotrace/internal/registry/models"
)

func TestAppendPreservesInsertionOrder(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	records := []models.TransferRecord{
		{BloodUnitID: 1, Timestamp: now, FromStatus: models.StatusDonated, ToStatus: models.StatusDonated, Actor: "institution-1"},
		{BloodUnitID: 1, Timestamp: now.Add(time.Hour), FromStatus: models.StatusDonated, ToStatus: models.StatusTesting, Actor: "lab-1"},
		{BloodUnitID: 1, Timestamp: now.Add(2 * time.Hour), FromStatus: models.StatusTesting, ToStatus: models.StatusQualified, Actor: "lab-1"},
	}
	for _, rec := range records {
		require.NoError(t, store.Append(ctx, rec))
	}

	got, err := store.ListByBloodUnit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestListIsolatesUnits(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, models.TransferRecord{BloodUnitID: 1, Actor: "a"}))
	require.NoError(t, store.Append(ctx, models.TransferRecord{BloodUnitID: 2, Actor: "b"}))

	got, err := store.ListByBloodUnit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	empty, err := store.ListByBloodUnit(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestReturnedSliceDoesNotAliasLog(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, models.TransferRecord{BloodUnitID: 1, Actor: "a"}))

	got, err := store.ListByBloodUnit(ctx, 1)
	require.NoError(t, err)
	got[0].Actor = "tampered"

	again, err := store.ListByBloodUnit(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, "a", again[0].Actor)
}
