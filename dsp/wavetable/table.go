// Package wavetable stores banks of single-cycle waves as signed 16-bit
// samples at several power-of-two resolutions, so a convolution kernel of any
// supported length can be derived without runtime resampling.
//
// A Table is immutable once constructed and is replaced wholesale when a new
// bank is loaded. Lower resolutions ("mip levels") are derived from the source
// frames by successive pair averaging.
package wavetable

import (
	"fmt"

	"github.com/cwbudde/algo-rainbow/dsp/core"
)

const (
	// MinFrameLen is the smallest supported wave resolution.
	MinFrameLen = 64

	// MaxFrameLen is the largest resolution a kernel can be built from.
	MaxFrameLen = 512
)

// mipSizes lists the resolutions a Table carries, ascending.
var mipSizes = []int{64, 128, 256, 512}

// MipSizes returns the supported wave resolutions in ascending order.
func MipSizes() []int {
	out := make([]int, len(mipSizes))
	copy(out, mipSizes)

	return out
}

// Table is an immutable bank of waves with per-resolution sample data.
type Table struct {
	name     string
	numWaves int
	mips     map[int][][]int16
	sizes    []int
}

// FromFrames builds a table from full-resolution frames, one per wave. All
// frames must share the same power-of-two length of at least MinFrameLen.
// Mip levels are generated for every supported size up to the frame length.
func FromFrames(name string, frames [][]int16) (*Table, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("wavetable: table %q has no frames", name)
	}

	frameLen := len(frames[0])
	if frameLen < MinFrameLen || !core.IsPowerOfTwo(frameLen) {
		return nil, fmt.Errorf("wavetable: frame length must be a power of two >= %d: %d", MinFrameLen, frameLen)
	}

	for i, f := range frames {
		if len(f) != frameLen {
			return nil, fmt.Errorf("wavetable: frame %d has length %d, expected %d", i, len(f), frameLen)
		}
	}

	t := &Table{
		name:     name,
		numWaves: len(frames),
		mips:     make(map[int][][]int16),
	}

	for _, size := range mipSizes {
		if size > frameLen {
			break
		}

		waves := make([][]int16, len(frames))
		for w, f := range frames {
			waves[w] = decimateTo(f, size)
		}

		t.mips[size] = waves
		t.sizes = append(t.sizes, size)
	}

	return t, nil
}

// Name returns the table's display name.
func (t *Table) Name() string { return t.name }

// NumWaves returns the number of waves in the table.
func (t *Table) NumWaves() int { return t.numWaves }

// MultiRes reports whether more than one resolution is available.
func (t *Table) MultiRes() bool { return len(t.sizes) > 1 }

// Sizes returns the available resolutions in ascending order.
func (t *Table) Sizes() []int {
	out := make([]int, len(t.sizes))
	copy(out, t.sizes)

	return out
}

// HasSize reports whether the table carries the given resolution.
func (t *Table) HasSize(size int) bool {
	_, ok := t.mips[size]
	return ok
}

// NearestSize returns the available resolution closest to size, preferring
// the smaller one on ties.
func (t *Table) NearestSize(size int) int {
	best := t.sizes[0]
	for _, s := range t.sizes {
		if abs(s-size) < abs(best-size) {
			best = s
		}
	}

	return best
}

// Wave returns the sample data for one wave at the given resolution. The
// returned slice is a view into the table and must not be modified.
func (t *Table) Wave(index, size int) ([]int16, error) {
	waves, ok := t.mips[size]
	if !ok {
		return nil, fmt.Errorf("wavetable: size %d not available in table %q", size, t.name)
	}

	if index < 0 || index >= len(waves) {
		return nil, fmt.Errorf("wavetable: wave index must be in [0, %d]: %d", len(waves)-1, index)
	}

	return waves[index], nil
}

// decimateTo halves frame by pair averaging until it reaches size.
// len(frame) must be a power-of-two multiple of size.
func decimateTo(frame []int16, size int) []int16 {
	cur := frame
	for len(cur) > size {
		half := make([]int16, len(cur)/2)
		for i := range half {
			half[i] = int16((int(cur[2*i]) + int(cur[2*i+1])) / 2)
		}

		cur = half
	}

	if len(cur) == len(frame) {
		out := make([]int16, len(frame))
		copy(out, frame)

		return out
	}

	return cur
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}
