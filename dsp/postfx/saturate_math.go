//go:build !fastmath

package postfx

import "math"

// satTanh computes tanh(x) using the standard library.
func satTanh(x float64) float64 {
	return math.Tanh(x)
}
