// utils/pricing.go
package utils

import (
	"math"
	"time"
)

// Long-rental discount tiers, evaluated highest threshold first.
const (
	weeklyDiscountDays  = 7
	weeklyDiscountRate  = 0.85 // 15% off for 7 days or more
	midTermDiscountDays = 3
	midTermDiscountRate = 0.90 // 10% off for 3 to 6 days
)

// CalculatePrice computes the total price of a rental: daily rate times the
// inclusive day count, with the tiered discount applied, rounded to cents.
func CalculatePrice(pricePerDay float64, start, end time.Time) float64 {
	days := RentalDays(start, end)

	total := pricePerDay * float64(days)

	if days >= weeklyDiscountDays {
		total *= weeklyDiscountRate
	} else if days >= midTermDiscountDays {
		total *= midTermDiscountRate
	}

	return Round2(total)
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
