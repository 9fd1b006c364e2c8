package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusName(t *testing.T) {
	assert.Equal(t, "Donated", StatusDonated.Name())
	assert.Equal(t, "Testing", StatusTesting.Name())
	assert.Equal(t, "Qualified", StatusQualified.Name())
	assert.Equal(t, "Unqualified", StatusUnqualified.Name())
	assert.Equal(t, "Stored", StatusStored.Name())
	assert.Equal(t, "Distributed", StatusDistributed.Name())
	assert.Equal(t, "Used", StatusUsed.Name())
	assert.Equal(t, "Expired", StatusExpired.Name())
	assert.Equal(t, "Unknown", Status(42).Name())
}

func TestStatusIsValid(t *testing.T) {
	for s := StatusDonated; s <= StatusExpired; s++ {
		assert.True(t, s.IsValid(), "status %d", s)
	}
	assert.False(t, Status(8).IsValid())
	assert.False(t, Status(255).IsValid())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusUsed.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	for _, s := range []Status{StatusDonated, StatusTesting, StatusQualified, StatusUnqualified, StatusStored, StatusDistributed} {
		assert.False(t, s.IsTerminal(), "status %s", s.Name())
	}
}

// TestCanTransitionTo walks the full 8x8 matrix so any accidental edit to the
// transition table fails loudly.
func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDonated:     {StatusTesting, StatusUnqualified, StatusExpired},
		StatusTesting:     {StatusQualified, StatusUnqualified, StatusExpired},
		StatusQualified:   {StatusStored, StatusExpired},
		StatusUnqualified: {StatusExpired},
		StatusStored:      {StatusDistributed, StatusExpired},
		StatusDistributed: {StatusUsed, StatusExpired},
		StatusUsed:        {},
		StatusExpired:     {},
	}

	for from := StatusDonated; from <= StatusExpired; from++ {
		want := map[Status]bool{}
		for _, to := range allowed[from] {
			want[to] = true
		}
		for to := StatusDonated; to <= StatusExpired; to++ {
			assert.Equal(t, want[to], from.CanTransitionTo(to),
				"%s -> %s", from.Name(), to.Name())
		}
	}
}

func TestCanTransitionToRejectsUnknownStates(t *testing.T) {
	assert.False(t, Status(9).CanTransitionTo(StatusTesting))
	assert.False(t, StatusDonated.CanTransitionTo(Status(9)))
	assert.False(t, StatusDonated.CanTransitionTo(StatusDonated))
}
