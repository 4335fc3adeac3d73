package postfx

import (
	"fmt"
	"math"
)

const (
	minSaturationAmount = 0.0
	maxSaturationAmount = 1.0

	// satIdentityThreshold is the amount below which saturation is bypassed.
	satIdentityThreshold = 1e-3
)

// Saturator is a tanh soft clipper with amount-dependent drive. Amount 0 is
// the identity; amount 1 drives the shaper at 5x. The output is scaled by
// 1/tanh(drive) so a full-scale input still reaches full scale and the stage
// adds coloration without a net level change at low amplitude.
type Saturator struct {
	amount       float64
	drive        float64
	invTanhDrive float64
}

// NewSaturator creates a saturator with amount in [0, 1].
func NewSaturator(amount float64) (*Saturator, error) {
	s := &Saturator{}

	err := s.SetAmount(amount)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// SetAmount sets the saturation amount in [0, 1] and re-derives the cached
// drive terms.
func (s *Saturator) SetAmount(amount float64) error {
	if amount < minSaturationAmount || amount > maxSaturationAmount || math.IsNaN(amount) {
		return fmt.Errorf("postfx: saturation amount must be in [%g, %g]: %f",
			minSaturationAmount, maxSaturationAmount, amount)
	}

	s.amount = amount
	s.drive = 1 + amount*4
	s.invTanhDrive = 1 / math.Tanh(s.drive)

	return nil
}

// Amount returns the saturation amount in [0, 1].
func (s *Saturator) Amount() float64 { return s.amount }

// Drive returns the cached drive factor in [1, 5].
func (s *Saturator) Drive() float64 { return s.drive }

// ProcessSample applies the saturation curve to one sample.
func (s *Saturator) ProcessSample(x float64) float64 {
	if s.amount < satIdentityThreshold {
		return x
	}

	return satTanh(x*s.drive) * s.invTanhDrive
}

// ProcessInPlace applies the saturation curve to buf in place.
func (s *Saturator) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = s.ProcessSample(buf[i])
	}
}
