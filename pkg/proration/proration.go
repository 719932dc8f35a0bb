// Package proration computes time-proportional billing amounts for plan
// changes inside a billing cycle.
//
// All functions are pure: no I/O, no clock, no rounding. Amounts come back
// as exact float64 results of the day-rate arithmetic so they are
// reproducible in tests; currency rounding happens once, at the boundary
// where an amount is persisted or charged, via Round2.
//
// The subscription lifecycle manager deliberately does not call this
// package. Changing a plan only re-points the current subscription; the
// caller composes proration and payment recording around it.
package proration

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Amount returns the prorated cost of switching from oldPrice to newPrice
// at eventDate within the cycle [cycleStart, cycleEnd). Positive means the
// tenant owes a charge, negative means a credit.
//
// A zero-length cycle or an event date outside the cycle yields 0.
func Amount(oldPrice, newPrice float64, cycleStart, cycleEnd, eventDate time.Time) float64 {
	totalDays := cycleEnd.Sub(cycleStart).Hours() / hoursPerDay
	remainingDays := cycleEnd.Sub(eventDate).Hours() / hoursPerDay

	if totalDays <= 0 || remainingDays <= 0 {
		return 0
	}
	if eventDate.Before(cycleStart) {
		return 0
	}

	dailyRateOld := oldPrice / totalDays
	dailyRateNew := newPrice / totalDays

	unusedCredit := dailyRateOld * remainingDays
	newCost := dailyRateNew * remainingDays

	return newCost - unusedCredit
}

// UpgradeCost is Amount under its billing-facing name.
func UpgradeCost(oldPrice, newPrice float64, cycleStart, cycleEnd, eventDate time.Time) float64 {
	return Amount(oldPrice, newPrice, cycleStart, cycleEnd, eventDate)
}

// UnusedAmount returns the value of the unused remainder of the cycle at a
// single price, used for cancellation refund estimates. Returns 0 when the
// event date is at or past the cycle end.
func UnusedAmount(price float64, cycleStart, cycleEnd, eventDate time.Time) float64 {
	return -Amount(price, 0, cycleStart, cycleEnd, eventDate)
}

// Round2 applies the currency rounding policy: round half away from zero to
// two decimals. Applied exactly once, where an amount is persisted or
// charged.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
