package rainbow

import "fmt"

// BusFrames is one render block: a flat float32 buffer holding buses*frames
// samples in bus-major order (all frames of bus 0, then bus 1, and so on),
// matching the layout hosts hand to the render callback. Channel views are
// resolved once per block and bounds-checked against the real buffer length.
type BusFrames struct {
	data   []float32
	buses  int
	frames int
}

// NewBusFrames allocates a zeroed block.
func NewBusFrames(buses, frames int) (*BusFrames, error) {
	if buses <= 0 {
		return nil, fmt.Errorf("rainbow: bus count must be > 0: %d", buses)
	}

	if frames <= 0 {
		return nil, fmt.Errorf("rainbow: frame count must be > 0: %d", frames)
	}

	return &BusFrames{
		data:   make([]float32, buses*frames),
		buses:  buses,
		frames: frames,
	}, nil
}

// WrapBusFrames wraps a host-owned buffer without copying. The buffer length
// must equal buses*frames.
func WrapBusFrames(data []float32, buses, frames int) (*BusFrames, error) {
	if buses <= 0 {
		return nil, fmt.Errorf("rainbow: bus count must be > 0: %d", buses)
	}

	if frames <= 0 {
		return nil, fmt.Errorf("rainbow: frame count must be > 0: %d", frames)
	}

	if len(data) != buses*frames {
		return nil, fmt.Errorf("rainbow: buffer length must be %d (buses*frames): %d", buses*frames, len(data))
	}

	return &BusFrames{data: data, buses: buses, frames: frames}, nil
}

// Buses returns the number of buses.
func (b *BusFrames) Buses() int { return b.buses }

// Frames returns the number of frames per bus.
func (b *BusFrames) Frames() int { return b.frames }

// Channel returns the view of one bus's frames.
func (b *BusFrames) Channel(bus int) ([]float32, error) {
	if bus < 0 || bus >= b.buses {
		return nil, fmt.Errorf("rainbow: bus must be in [0, %d]: %d", b.buses-1, bus)
	}

	return b.data[bus*b.frames : (bus+1)*b.frames], nil
}

// Data returns the underlying bus-major buffer.
func (b *BusFrames) Data() []float32 { return b.data }

// Zero clears every sample.
func (b *BusFrames) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// FromInterleaved fills the block from frame-major samples (bus index varies
// fastest), the usual layout of decoded multi-channel audio.
func (b *BusFrames) FromInterleaved(src []float32) error {
	if len(src) != len(b.data) {
		return fmt.Errorf("rainbow: interleaved length must be %d: %d", len(b.data), len(src))
	}

	for bus := 0; bus < b.buses; bus++ {
		dst := b.data[bus*b.frames:]
		for i := 0; i < b.frames; i++ {
			dst[i] = src[i*b.buses+bus]
		}
	}

	return nil
}

// ToInterleaved writes the block into dst in frame-major order (bus index
// varies fastest).
func (b *BusFrames) ToInterleaved(dst []float32) error {
	if len(dst) != len(b.data) {
		return fmt.Errorf("rainbow: interleaved length must be %d: %d", len(b.data), len(dst))
	}

	for bus := 0; bus < b.buses; bus++ {
		src := b.data[bus*b.frames:]
		for i := 0; i < b.frames; i++ {
			dst[i*b.buses+bus] = src[i]
		}
	}

	return nil
}
