package firconv

import (
	"math"
	"testing"
)

func TestNewCrossfadeValidation(t *testing.T) {
	for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewCrossfade(rate); err == nil {
			t.Fatalf("sample rate %v: expected error", rate)
		}
	}

	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	if c.Active() {
		t.Fatal("new crossfade must be inactive")
	}
}

func TestCrossfadeInactiveReportsZero(t *testing.T) {
	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	if c.RatioAt(100) != 0 {
		t.Fatal("inactive crossfade must report ratio 0")
	}

	if c.Advance(64) {
		t.Fatal("inactive crossfade must not complete")
	}
}

func TestCrossfadeRampMonotonicAndBounded(t *testing.T) {
	const blockSize = 16

	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	c.Start()

	prev := 0.0
	samples := 0
	done := false

	for !done {
		for i := 0; i < blockSize; i++ {
			r := c.RatioAt(i)
			if r < prev {
				t.Fatalf("ratio decreased: %v after %v", r, prev)
			}

			if r < 0 || r > 1 {
				t.Fatalf("ratio out of bounds: %v", r)
			}

			prev = r
		}

		done = c.Advance(blockSize)
		samples += blockSize

		if samples > 48000 {
			t.Fatal("crossfade never completed")
		}
	}

	// 50 ms at 48 kHz is 2400 samples; completion lands on the block
	// boundary at or just after that.
	if samples < 2400 || samples > 2400+blockSize {
		t.Fatalf("crossfade completed after %d samples, expected about 2400", samples)
	}

	if c.Active() {
		t.Fatal("crossfade must deactivate on completion")
	}

	if c.Ratio() != 0 {
		t.Fatalf("Ratio() = %v, expected 0 after completion", c.Ratio())
	}
}

func TestCrossfadeRatioAtClampsToOne(t *testing.T) {
	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	c.Start()

	if got := c.RatioAt(1 << 20); got != 1 {
		t.Fatalf("RatioAt far past the ramp = %v, expected 1", got)
	}
}

func TestCrossfadeStartKeepsProgress(t *testing.T) {
	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	c.Start()
	c.Advance(1200)

	mid := c.Ratio()
	if mid <= 0 || mid >= 1 {
		t.Fatalf("Ratio() = %v, expected mid-ramp", mid)
	}

	// Restaging a pending kernel keeps the ramp where it is.
	c.Start()

	if c.Ratio() != mid {
		t.Fatalf("Start during active ramp reset ratio to %v, expected %v", c.Ratio(), mid)
	}
}

func TestCrossfadeSetSampleRate(t *testing.T) {
	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	if err := c.SetSampleRate(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if err := c.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}

	// Twice the rate doubles the sample count of the ramp.
	c.Start()

	samples := 0
	for !c.Advance(16) {
		samples += 16
		if samples > 96000 {
			t.Fatal("crossfade never completed")
		}
	}

	samples += 16
	if samples < 4800 || samples > 4816 {
		t.Fatalf("ramp at 96 kHz completed after %d samples, expected about 4800", samples)
	}
}

func TestCrossfadeReset(t *testing.T) {
	c, err := NewCrossfade(48000)
	if err != nil {
		t.Fatalf("NewCrossfade: %v", err)
	}

	c.Start()
	c.Advance(800)
	c.Reset()

	if c.Active() || c.Ratio() != 0 {
		t.Fatal("Reset must deactivate and clear the ramp")
	}
}
