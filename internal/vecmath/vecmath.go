// Package vecmath provides the small set of float64 vector operations the
// render path depends on. Implementations are pure Go; the dot product keeps
// four independent accumulators so the compiler can schedule the multiplies
// without a loop-carried dependency on every add.
package vecmath

import "math"

// DotProduct returns sum(a[i] * b[i]) over the common length of a and b.
// Returns 0 when either slice is empty.
func DotProduct(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	if n == 0 {
		return 0
	}

	var s0, s1, s2, s3 float64

	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}

	sum := s0 + s1 + s2 + s3
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}

	return sum
}

// ScaleBlock writes src[i] * scale into dst. Panics if lengths differ.
func ScaleBlock(dst, src []float64, scale float64) {
	if len(dst) != len(src) {
		panic("vecmath: slice length mismatch")
	}

	for i := range dst {
		dst[i] = src[i] * scale
	}
}

// ScaleBlockInPlace multiplies each element of dst by scale.
func ScaleBlockInPlace(dst []float64, scale float64) {
	for i := range dst {
		dst[i] *= scale
	}
}

// SumAbs returns sum(|x[i]|). Returns 0 for an empty slice.
func SumAbs(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += math.Abs(v)
	}

	return sum
}

// MaxAbs returns the maximum absolute value in x. Returns 0 for an empty slice.
func MaxAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	max := math.Abs(x[0])
	for i := 1; i < len(x); i++ {
		v := math.Abs(x[i])
		if v > max {
			max = v
		}
	}

	return max
}
