//go:build fastmath

package postfx

import (
	"github.com/meko-christian/algo-approx"
)

// satTanh computes tanh(x) using a fast exponential approximation.
// Uses the identity: tanh(x) = 1 - 2/(e^(2x) + 1)
func satTanh(x float64) float64 {
	// The approximation degrades far outside the saturation range; tanh is
	// fully saturated there anyway.
	if x > 20 {
		return 1
	}

	if x < -20 {
		return -1
	}

	return 1 - 2/(approx.FastExp(2*x)+1)
}
