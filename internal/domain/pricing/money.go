package pricing

import "math"

// PercentOf returns percent% of cents rounded half-up to the minor unit.
func PercentOf(cents int64, percent float64) int64 {
	return int64(math.Round(float64(cents) * percent / 100.0))
}
