package firconv

import (
	"github.com/cwbudde/algo-rainbow/dsp/core"
	"github.com/cwbudde/algo-rainbow/dsp/firkernel"
)

const (
	// MinTaps is the shortest kernel an Engine convolves with.
	MinTaps = firkernel.MinTaps

	// MaxTaps is the longest kernel an Engine convolves with.
	MaxTaps = firkernel.MaxTaps

	// cursorMask wraps the write cursor; MaxTaps is a power of two.
	cursorMask = MaxTaps - 1
)

// Engine is a single-channel streaming FIR convolver with a fixed-capacity
// circular delay line. The zero value is not ready for use; call NewEngine.
//
// Every input sample is written at the cursor and again MaxTaps slots higher,
// so the window of the most recent K samples is one contiguous slice ending at
// the newest sample's doubled copy, for any K up to MaxTaps.
type Engine struct {
	delay   [2 * MaxTaps]float64
	cursor  int
	current *firkernel.Kernel
	pending *firkernel.Kernel
}

// NewEngine returns an engine with no kernel adopted. It processes in bypass
// (unity passthrough) until Adopt or Promote installs a kernel.
func NewEngine() *Engine {
	return &Engine{}
}

// ProcessSample pushes x into the delay line and returns the convolution of
// the current kernel with the most recent input samples. Without a kernel the
// input is returned unchanged; the delay line still advances.
func (e *Engine) ProcessSample(x float64) float64 {
	end := e.push(x)

	if e.current == nil {
		return x
	}

	return e.current.Dot(e.delay[end-e.current.Size() : end])
}

// ProcessSampleBlend pushes x and returns the linear blend of the current and
// pending kernels' outputs: wet = old + (new-old)*ratio. A missing current
// kernel contributes the dry sample (bypass); a missing pending kernel makes
// this equivalent to ProcessSample.
func (e *Engine) ProcessSampleBlend(x, ratio float64) float64 {
	end := e.push(x)

	wetOld := x
	if e.current != nil {
		wetOld = e.current.Dot(e.delay[end-e.current.Size() : end])
	}

	if e.pending == nil {
		return wetOld
	}

	wetNew := e.pending.Dot(e.delay[end-e.pending.Size() : end])

	return wetOld + (wetNew-wetOld)*ratio
}

// push writes x twice and advances the cursor, returning the exclusive end of
// the newest sample's contiguous history window.
func (e *Engine) push(x float64) int {
	x = core.FlushDenormals(x)

	e.delay[e.cursor] = x
	e.delay[e.cursor+MaxTaps] = x

	end := e.cursor + MaxTaps + 1
	e.cursor = (e.cursor + 1) & cursorMask

	return end
}

// Adopt installs k as the current kernel immediately, with no ramp, and
// discards any pending kernel. Used for the first load, when there is no
// previous kernel to fade from.
func (e *Engine) Adopt(k *firkernel.Kernel) {
	e.current = k
	e.pending = nil
}

// Stage publishes k as the pending kernel. Staging again before promotion
// replaces the previous pending kernel (last write wins).
func (e *Engine) Stage(k *firkernel.Kernel) {
	e.pending = k
}

// Promote makes the pending kernel current and clears the pending slot. A
// promote without a staged kernel is a no-op.
func (e *Engine) Promote() {
	if e.pending == nil {
		return
	}

	e.current = e.pending
	e.pending = nil
}

// Pending reports whether a staged kernel is awaiting promotion.
func (e *Engine) Pending() bool { return e.pending != nil }

// Bypassed reports whether the engine has no current kernel and passes input
// through unchanged.
func (e *Engine) Bypassed() bool { return e.current == nil }

// KernelSize returns the current kernel's tap count, or 0 in bypass.
func (e *Engine) KernelSize() int {
	if e.current == nil {
		return 0
	}

	return e.current.Size()
}

// Reset clears the delay line and both kernel slots.
func (e *Engine) Reset() {
	for i := range e.delay {
		e.delay[i] = 0
	}

	e.cursor = 0
	e.current = nil
	e.pending = nil
}
