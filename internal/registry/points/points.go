// Package points is the pure credit-point policy: a fixed table of donation
// types, the award formula, and the bonus/tier constants. No state, no side
// effects.
package points

import (
	dErrors "hemotrace/pkg/domain-errors"
)

// ConfigEntry holds the per-donation-type parameters.
type ConfigEntry struct {
	BasePoints int64
	Weight     int64
}

// The five built-in donation types. The table is seeded at startup and is not
// runtime-extensible; ComputePoints fails closed on anything else.
const (
	TypeWholeBlood200 = "whole_blood_200ml"
	TypeWholeBlood400 = "whole_blood_400ml"
	TypeComponent     = "component_blood"
	TypeEmergency     = "emergency_donation"
	TypeRareBloodType = "rare_blood_type"
)

// table is the single source of truth for donation-type parameters.
var table = map[string]ConfigEntry{
	TypeWholeBlood200: {BasePoints: 100, Weight: 100},
	TypeWholeBlood400: {BasePoints: 200, Weight: 100},
	TypeComponent:     {BasePoints: 150, Weight: 120},
	TypeEmergency:     {BasePoints: 200, Weight: 150},
	TypeRareBloodType: {BasePoints: 180, Weight: 180},
}

const (
	// LoyaltyBonus is the flat award for a donor's third or later donation
	// inside the trailing LoyaltyWindowDays window.
	LoyaltyBonus int64 = 50
	// LoyaltyDonationThreshold is the donation count that triggers the bonus.
	LoyaltyDonationThreshold = 3
	// LoyaltyWindowDays is the trailing window for the loyalty rule.
	LoyaltyWindowDays = 365

	// UsageBonus is the flat award when a donor's unit is clinically used.
	UsageBonus int64 = 50
)

// IsKnownType reports whether donationType exists in the table.
func IsKnownType(donationType string) bool {
	_, ok := table[donationType]
	return ok
}

// Compute maps a donation type and amount (ml) to a point award:
//
//	floor(base * weight * multiplier / 100)
//
// where multiplier = floor(amount/200), floored to a minimum of 1.
//
// Errors: CodeInvalidInput when the type is unknown or the amount is zero.
func Compute(donationType string, amount uint32) (int64, error) {
	entry, ok := table[donationType]
	if !ok {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "unknown donation type %q", donationType)
	}
	if amount == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount must be positive")
	}

	multiplier := int64(amount / 200)
	if multiplier < 1 {
		multiplier = 1
	}
	return entry.BasePoints * entry.Weight * multiplier / 100, nil
}

// CreditLevel buckets a cumulative point total into the 0-3 reputation tiers.
func CreditLevel(totalPoints int64) int {
	switch {
	case totalPoints >= 1000:
		return 3
	case totalPoints >= 800:
		return 2
	case totalPoints >= 500:
		return 1
	default:
		return 0
	}
}
