package rainbow

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rainbow/dsp/core"
	"github.com/cwbudde/algo-rainbow/dsp/postfx"
	"github.com/cwbudde/algo-rainbow/dsp/wavetable"
)

// Param identifies one host-notifiable parameter.
type Param int

const (
	// ParamWavetable selects the wavetable index to load.
	ParamWavetable Param = iota

	// ParamPosition is the read position within the wavetable, 0..1.
	ParamPosition

	// ParamSpread is the per-channel position spread, 0..1.
	ParamSpread

	// ParamDepth is the wet/dry depth, 0..1.
	ParamDepth

	// ParamKernelSize selects the FIR kernel length.
	ParamKernelSize

	// ParamGain is the output gain in tenths of a dB, -240..240.
	ParamGain

	// ParamSaturation is the soft-saturation amount, 0..1.
	ParamSaturation

	// ParamOutputMode selects replace (0) or add (1) writes for all channels.
	ParamOutputMode
)

// String returns the parameter name.
func (p Param) String() string {
	switch p {
	case ParamWavetable:
		return "wavetable"
	case ParamPosition:
		return "position"
	case ParamSpread:
		return "spread"
	case ParamDepth:
		return "depth"
	case ParamKernelSize:
		return "kernel size"
	case ParamGain:
		return "gain"
	case ParamSaturation:
		return "saturation"
	case ParamOutputMode:
		return "output mode"
	default:
		return fmt.Sprintf("Param(%d)", int(p))
	}
}

// ParamChanged applies a host parameter edit. Values use the host encoding
// (gain in tenths of a dB) and are clamped to their valid range rather than
// rejected; every cached quantity is re-derived from the full parameter set.
// Position, spread, index, and kernel-size edits rebuild the kernel, through
// a crossfade when one is already active.
func (e *Effect) ParamChanged(p Param, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("rainbow: %s value must not be NaN", p)
	}

	switch p {
	case ParamWavetable:
		e.RequestLoad(int(value))
	case ParamPosition:
		e.position = core.Clamp(value, 0, 1)
		e.rebuildKernels()
	case ParamSpread:
		e.spread = core.Clamp(value, 0, 1)
		e.rebuildKernels()
	case ParamDepth:
		e.depth = core.Clamp(value, 0, 1)
	case ParamKernelSize:
		e.kernelSize = snapKernelSize(int(value))
		e.rebuildKernels()
	case ParamGain:
		e.gainDB = core.Clamp(value, 10*minGainDB, 10*maxGainDB) / 10
	case ParamSaturation:
		e.saturation = core.Clamp(value, 0, 1)
	case ParamOutputMode:
		mode := postfx.OutputReplace
		if value >= 0.5 {
			mode = postfx.OutputAdd
		}

		for c := range e.outMode {
			e.outMode[c] = mode
		}
	default:
		return fmt.Errorf("rainbow: unknown parameter: %d", int(p))
	}

	e.updateDerived()

	return nil
}

// snapKernelSize maps an arbitrary requested size onto the nearest supported
// resolution, preferring the smaller one on ties.
func snapKernelSize(size int) int {
	sizes := wavetable.MipSizes()

	best := sizes[0]
	for _, s := range sizes {
		if absInt(s-size) < absInt(best-size) {
			best = s
		}
	}

	return best
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// SetPosition sets the wavetable read position in [0, 1].
func (e *Effect) SetPosition(p float64) error {
	if p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("rainbow: position must be in [0, 1]: %f", p)
	}

	e.position = p
	e.rebuildKernels()

	return nil
}

// SetSpread sets the per-channel position spread in [0, 1].
func (e *Effect) SetSpread(s float64) error {
	if s < 0 || s > 1 || math.IsNaN(s) {
		return fmt.Errorf("rainbow: spread must be in [0, 1]: %f", s)
	}

	e.spread = s
	e.rebuildKernels()

	return nil
}

// SetDepth sets the wet/dry depth in [0, 1].
func (e *Effect) SetDepth(d float64) error {
	if d < 0 || d > 1 || math.IsNaN(d) {
		return fmt.Errorf("rainbow: depth must be in [0, 1]: %f", d)
	}

	e.depth = d

	return nil
}

// SetSaturation sets the saturation amount in [0, 1].
func (e *Effect) SetSaturation(a float64) error {
	if a < 0 || a > 1 || math.IsNaN(a) {
		return fmt.Errorf("rainbow: saturation must be in [0, 1]: %f", a)
	}

	e.saturation = a
	e.updateDerived()

	return nil
}

// SetGainDB sets the output gain in [-24, 24] dB.
func (e *Effect) SetGainDB(db float64) error {
	if db < minGainDB || db > maxGainDB || math.IsNaN(db) {
		return fmt.Errorf("rainbow: gain must be in [%g, %g] dB: %f", minGainDB, maxGainDB, db)
	}

	e.gainDB = db
	e.updateDerived()

	return nil
}

// SetKernelSize selects the FIR kernel length, one of the supported
// wavetable resolutions.
func (e *Effect) SetKernelSize(size int) error {
	if !supportedKernelSize(size) {
		return fmt.Errorf("rainbow: kernel size must be one of %v: %d", wavetable.MipSizes(), size)
	}

	e.kernelSize = size
	e.rebuildKernels()

	return nil
}

// SetOutputMode sets the write mode for every channel.
func (e *Effect) SetOutputMode(mode postfx.OutputMode) error {
	if !postfx.ValidOutputMode(mode) {
		return fmt.Errorf("rainbow: output mode is invalid: %d", mode)
	}

	for c := range e.outMode {
		e.outMode[c] = mode
	}

	return nil
}

// SetChannelOutputMode sets the write mode for one channel.
func (e *Effect) SetChannelOutputMode(channel int, mode postfx.OutputMode) error {
	if channel < 0 || channel >= e.channels {
		return fmt.Errorf("rainbow: channel must be in [0, %d]: %d", e.channels-1, channel)
	}

	if !postfx.ValidOutputMode(mode) {
		return fmt.Errorf("rainbow: output mode is invalid: %d", mode)
	}

	e.outMode[channel] = mode

	return nil
}

// SetWavetable starts an asynchronous load of the loader's table at index.
func (e *Effect) SetWavetable(index int) error {
	if e.loader == nil {
		return errors.New("rainbow: no loader configured")
	}

	if index < 0 || index >= e.loader.NumTables() {
		return fmt.Errorf("rainbow: table index must be in [0, %d]: %d", e.loader.NumTables()-1, index)
	}

	e.RequestLoad(index)

	return nil
}

// Position returns the wavetable read position in [0, 1].
func (e *Effect) Position() float64 { return e.position }

// Spread returns the per-channel position spread in [0, 1].
func (e *Effect) Spread() float64 { return e.spread }

// Depth returns the wet/dry depth in [0, 1].
func (e *Effect) Depth() float64 { return e.depth }

// Saturation returns the saturation amount in [0, 1].
func (e *Effect) Saturation() float64 { return e.saturation }

// GainDB returns the output gain in dB.
func (e *Effect) GainDB() float64 { return e.gainDB }

// KernelSize returns the selected kernel length.
func (e *Effect) KernelSize() int { return e.kernelSize }

// Channels returns the channel count.
func (e *Effect) Channels() int { return e.channels }

// SampleRate returns the render sample rate in Hz.
func (e *Effect) SampleRate() float64 { return e.sampleRate }
