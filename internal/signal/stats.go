package signal

import (
	"math"
	"sort"
)

// quantile computes the q-quantile of values with linear interpolation
// between adjacent order statistics. values must be non-empty; it is not
// modified.
func quantile(values []float64, q float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)

	if len(s) == 1 {
		return s[0]
	}
	pos := q * float64(len(s)-1)
	lo := int(math.Floor(pos))
	if lo >= len(s)-1 {
		return s[len(s)-1]
	}
	frac := pos - float64(lo)
	return s[lo] + frac*(s[lo+1]-s[lo])
}

func median(values []float64) float64 {
	return quantile(values, 0.5)
}

// round2 and friends round half away from zero at fixed precision, matching
// the precision conventions of the report schema.
func round1(x float64) float64 { return roundTo(x, 10) }
func round2(x float64) float64 { return roundTo(x, 100) }
func round4(x float64) float64 { return roundTo(x, 10000) }

func roundTo(x, scale float64) float64 {
	return math.Round(x*scale) / scale
}
