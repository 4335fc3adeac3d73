package firkernel

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rainbow/dsp/core"
)

// Response returns the kernel's magnitude response at fftSize points:
// |H[k]| for bins 0..fftSize/2 (DC through Nyquist). fftSize must be a power
// of two no smaller than the kernel size.
func (k *Kernel) Response(fftSize int) ([]float64, error) {
	if fftSize < k.Size() || !core.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("firkernel: fft size must be a power of two >= %d: %d", k.Size(), fftSize)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("firkernel: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range k.taps {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("firkernel: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}
