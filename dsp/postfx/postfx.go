// Package postfx provides the output stage that follows the convolution
// engine: wet/dry mixing, soft saturation, and additive-vs-replace writes to
// the host's bus buffers.
package postfx

import "fmt"

// Mix blends the dry and wet signals: depth 0 returns dry unchanged, depth 1
// returns wet unchanged.
func Mix(dry, wet, depth float64) float64 {
	return dry*(1-depth) + wet*depth
}

// OutputMode selects how a processed sample is written to its output bus.
type OutputMode int

const (
	// OutputReplace overwrites whatever the bus already carries.
	OutputReplace OutputMode = iota

	// OutputAdd accumulates onto the existing bus content.
	OutputAdd
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputReplace:
		return "replace"
	case OutputAdd:
		return "add"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// ValidOutputMode reports whether m is a known mode.
func ValidOutputMode(m OutputMode) bool {
	return m == OutputReplace || m == OutputAdd
}

// WriteSample writes x into dst[i] according to mode. Unknown modes replace.
func WriteSample(dst []float32, i int, x float64, mode OutputMode) {
	if mode == OutputAdd {
		dst[i] += float32(x)
		return
	}

	dst[i] = float32(x)
}
