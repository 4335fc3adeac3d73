package wavetable

import (
	"fmt"
	"math"
)

// ShapeFunc maps a phase in [0, 1) to an amplitude in [-1, 1].
type ShapeFunc func(phase float64) float64

// Sine is one cycle of a sine wave.
func Sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// Triangle is a zero-aligned triangle: rising through zero at phase 0.
func Triangle(phase float64) float64 {
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}

// Square is a 50% duty-cycle square wave.
func Square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}

	return -1
}

// Saw is a zero-aligned sawtooth: rising through zero at phase 0 with its
// discontinuity at phase 0.5.
func Saw(phase float64) float64 {
	if phase < 0.5 {
		return 2 * phase
	}

	return 2*phase - 2
}

// Generate builds a table with one wave per shape, each sampled at frameLen
// points and quantized to 16 bits.
func Generate(name string, shapes []ShapeFunc, frameLen int) (*Table, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("wavetable: table %q has no shapes", name)
	}

	frames := make([][]int16, len(shapes))
	for w, shape := range shapes {
		if shape == nil {
			return nil, fmt.Errorf("wavetable: shape %d is nil", w)
		}

		frame := make([]int16, frameLen)
		for i := range frame {
			frame[i] = quantize(shape(float64(i) / float64(frameLen)))
		}

		frames[w] = frame
	}

	return FromFrames(name, frames)
}

// quantize converts an amplitude in [-1, 1] to a signed 16-bit sample,
// clamping out-of-range input.
func quantize(v float64) int16 {
	if v > 1 {
		v = 1
	}

	if v < -1 {
		v = -1
	}

	return int16(math.Round(v * 32767))
}
