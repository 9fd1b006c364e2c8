package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDonor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first donation seeds the aggregate", func(t *testing.T) {
		donor, err := NewDonor("donor-1", "O-", 100, now)
		require.NoError(t, err)
		assert.Equal(t, 1, donor.DonationCount)
		assert.EqualValues(t, 100, donor.TotalPoints)
		assert.Equal(t, now, donor.FirstDonationDate)
		assert.Equal(t, now, donor.LastDonationDate)
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		_, err := NewDonor("", "O-", 100, now)
		require.Error(t, err)
	})

	t.Run("rejects negative initial points", func(t *testing.T) {
		_, err := NewDonor("donor-1", "O-", -1, now)
		require.Error(t, err)
	})
}

func TestApplyDonation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	donor, err := NewDonor("donor-1", "O-", 100, now)
	require.NoError(t, err)

	later := now.AddDate(0, 1, 0)
	donor.ApplyDonation(400, later)

	assert.Equal(t, 2, donor.DonationCount)
	assert.EqualValues(t, 500, donor.TotalPoints)
	assert.Equal(t, now, donor.FirstDonationDate, "first donation date never moves")
	assert.Equal(t, later, donor.LastDonationDate)
}

func TestPointsAreMonotone(t *testing.T) {
	now := time.Now()
	donor, err := NewDonor("donor-1", "O-", 100, now)
	require.NoError(t, err)

	donor.AwardPoints(-50)
	assert.EqualValues(t, 100, donor.TotalPoints, "negative awards are ignored")

	donor.AwardPoints(50)
	assert.EqualValues(t, 150, donor.TotalPoints)
}

func TestDonorKey(t *testing.T) {
	now := time.Now()
	a, err := NewDonor("donor-1", "O-", 0, now)
	require.NoError(t, err)
	b, err := NewDonor("donor-1", "A+", 0, now)
	require.NoError(t, err)
	c, err := NewDonor("donor-2", "O-", 0, now)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key(), "key depends only on identity")
	assert.NotEqual(t, a.Key(), c.Key())
}
