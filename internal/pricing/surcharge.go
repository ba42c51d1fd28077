package pricing

import "math"

// IncludedMilesPerLeg is the distance allowance per leg that is not subject to
// a mileage surcharge.
const IncludedMilesPerLeg = 20.0

// Surcharge converts a leg distance and a per-mile rate into the billable
// overage amount. The first IncludedMilesPerLeg miles of every leg are free;
// only the overage is billed. Negative rates are a caller error and are not
// validated here.
func Surcharge(miles, perMileRate float64) float64 {
	overage := math.Max(0, miles-IncludedMilesPerLeg)
	return overage * perMileRate
}

// roundMiles rounds a distance to the nearest whole mile for display.
func roundMiles(miles float64) int {
	return int(math.Round(miles))
}

// roundMoney rounds a currency amount to two decimal places.
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
