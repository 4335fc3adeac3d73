// Package firkernel derives normalized FIR kernels from wavetable sample
// data at an arbitrary fractional read position.
//
// A kernel is built by linearly interpolating between the two waves adjacent
// to the requested position and scaling the taps so their absolute values sum
// to one. Unity-gain normalization keeps the overall loudness stable while
// the read position sweeps across the table. Near-silent source waves are
// left unnormalized to avoid dividing by a vanishing sum.
//
// Building is deterministic and side-effect-free; the resulting Kernel is
// immutable and safe to share between channels.
package firkernel

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rainbow/dsp/core"
	"github.com/cwbudde/algo-rainbow/internal/vecmath"
)

const (
	// MinTaps is the smallest kernel length Build accepts.
	MinTaps = 4

	// MaxTaps is the largest kernel length Build accepts.
	MaxTaps = 512

	// waveIndexEpsilon keeps the interpolation upper wave in range when the
	// position lands exactly on the last wave.
	waveIndexEpsilon = 1e-4

	// normThreshold is the smallest tap sum that is safe to normalize by.
	normThreshold = 1e-3
)

// Errors returned by Build.
var (
	ErrNoSource = errors.New("firkernel: nil wave source")
	ErrNoWaves  = errors.New("firkernel: wave source has no waves")
)

// Source supplies wave sample data at a requested resolution. Implementations
// must return exactly size samples per wave; *wavetable.Table satisfies this.
type Source interface {
	NumWaves() int
	Wave(index, size int) ([]int16, error)
}

// Kernel is an immutable set of FIR taps in most-recent-first order:
// Taps()[0] multiplies the newest input sample.
type Kernel struct {
	taps       []float64
	rev        []float64
	l1         float64
	normalized bool
}

// Build derives a kernel of the given size from src at position+channelOffset.
// The combined position is clamped to [0, 1] and mapped onto the table's wave
// range; taps are interpolated sample-by-sample between the two adjacent
// waves and normalized to unit absolute sum when the source is loud enough.
func Build(src Source, position, channelOffset float64, size int) (*Kernel, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	numWaves := src.NumWaves()
	if numWaves <= 0 {
		return nil, ErrNoWaves
	}

	if size < MinTaps || size > MaxTaps || !core.IsPowerOfTwo(size) {
		return nil, fmt.Errorf("firkernel: size must be a power of two in [%d, %d]: %d", MinTaps, MaxTaps, size)
	}

	p := core.Clamp(position+channelOffset, 0, 1)

	offset := p * float64(numWaves-1)

	maxOffset := float64(numWaves-1) - waveIndexEpsilon
	if maxOffset < 0 {
		maxOffset = 0
	}

	offset = core.Clamp(offset, 0, maxOffset)

	wave0 := int(offset)

	wave1 := wave0 + 1
	if wave1 > numWaves-1 {
		wave1 = numWaves - 1
	}

	frac := offset - float64(wave0)

	v0, err := src.Wave(wave0, size)
	if err != nil {
		return nil, err
	}

	v1, err := src.Wave(wave1, size)
	if err != nil {
		return nil, err
	}

	if len(v0) != size || len(v1) != size {
		return nil, fmt.Errorf("firkernel: source returned %d and %d samples, expected %d", len(v0), len(v1), size)
	}

	taps := make([]float64, size)
	for i := range taps {
		a := float64(v0[i]) / 32768
		b := float64(v1[i]) / 32768
		taps[i] = a + frac*(b-a)
	}

	l1 := vecmath.SumAbs(taps)

	normalized := l1 > normThreshold
	if normalized {
		vecmath.ScaleBlockInPlace(taps, 1/l1)
	}

	rev := make([]float64, size)
	for i := range rev {
		rev[i] = taps[size-1-i]
	}

	return &Kernel{taps: taps, rev: rev, l1: l1, normalized: normalized}, nil
}

// Size returns the number of taps.
func (k *Kernel) Size() int { return len(k.taps) }

// Taps returns a copy of the taps in most-recent-first order.
func (k *Kernel) Taps() []float64 {
	out := make([]float64, len(k.taps))
	copy(out, k.taps)

	return out
}

// L1 returns the pre-normalization sum of absolute tap values.
func (k *Kernel) L1() float64 { return k.l1 }

// Normalized reports whether the taps were scaled to unit absolute sum.
func (k *Kernel) Normalized() bool { return k.normalized }

// Clone returns an independent copy of the kernel. Kernels are immutable, so
// sharing one instance across channels is equally safe; Clone exists for
// callers that want per-channel ownership anyway.
func (k *Kernel) Clone() *Kernel {
	out := &Kernel{
		taps:       make([]float64, len(k.taps)),
		rev:        make([]float64, len(k.rev)),
		l1:         k.l1,
		normalized: k.normalized,
	}

	copy(out.taps, k.taps)
	copy(out.rev, k.rev)

	return out
}

// Dot convolves one output sample: window must hold the most recent Size()
// input samples in ascending time order (oldest first, newest last).
func (k *Kernel) Dot(window []float64) float64 {
	return vecmath.DotProduct(window, k.rev)
}
