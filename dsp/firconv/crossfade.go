package firconv

import (
	"fmt"
	"math"
)

// rampSeconds is the wall-clock duration of a kernel crossfade.
const rampSeconds = 0.050

// Crossfade is the shared ramp that blends every channel from its current to
// its pending kernel. It advances once per block and hands out per-frame
// ratios that are identical for all channels, independent of the order the
// channels are processed in.
type Crossfade struct {
	ratio  float64
	rate   float64
	active bool
}

// NewCrossfade returns an inactive crossfade whose ramp completes in 50 ms at
// the given sample rate (1/2400 per sample at 48 kHz).
func NewCrossfade(sampleRate float64) (*Crossfade, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("firconv: sample rate must be > 0 and finite: %f", sampleRate)
	}

	return &Crossfade{rate: 1 / (rampSeconds * sampleRate)}, nil
}

// Start activates the ramp at ratio 0. Starting an already-active ramp keeps
// its progress: a superseded pending kernel fades in from wherever the ramp
// already is, rather than restarting the blend.
func (c *Crossfade) Start() {
	if c.active {
		return
	}

	c.ratio = 0
	c.active = true
}

// RatioAt returns the blend ratio for frame i of the current block, clamped
// to [0, 1]. Inactive crossfades report 0.
func (c *Crossfade) RatioAt(i int) float64 {
	if !c.active {
		return 0
	}

	r := c.ratio + float64(i+1)*c.rate
	if r > 1 {
		return 1
	}

	return r
}

// Advance commits a processed block of the given frame count. It returns true
// when the ramp has completed, in which case the crossfade deactivates and the
// caller must promote the pending kernel on every engine.
func (c *Crossfade) Advance(frames int) bool {
	if !c.active || frames <= 0 {
		return false
	}

	c.ratio = c.RatioAt(frames - 1)
	if c.ratio < 1 {
		return false
	}

	c.active = false
	c.ratio = 0

	return true
}

// Active reports whether a ramp is in progress.
func (c *Crossfade) Active() bool { return c.active }

// Ratio returns the committed ramp position in [0, 1].
func (c *Crossfade) Ratio() float64 { return c.ratio }

// SetSampleRate rescales the ramp rate so the remaining fade keeps the fixed
// wall-clock duration; ramp progress is preserved.
func (c *Crossfade) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("firconv: sample rate must be > 0 and finite: %f", sampleRate)
	}

	c.rate = 1 / (rampSeconds * sampleRate)

	return nil
}

// Reset deactivates the ramp and clears its progress.
func (c *Crossfade) Reset() {
	c.ratio = 0
	c.active = false
}
