// Package rainbow implements a wavetable FIR convolution effect: the input
// signal is convolved with a normalized kernel derived from a wavetable read
// position, so sweeping the position morphs the filter's character.
//
// An Effect composes the dsp building blocks: firkernel derives kernels,
// firconv convolves per channel and crossfades kernel swaps, postfx mixes,
// saturates, and writes to the output buses. Wavetables come from the
// wavetable package, either installed directly or loaded asynchronously
// through a Loader.
//
// Control methods and Process must be serialized by the caller; the effect
// starts no goroutines of its own except for RequestLoad, whose completion is
// handed back through an internal single-slot mailbox that Process consumes
// at the start of each block.
package rainbow

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rainbow/dsp/core"
	"github.com/cwbudde/algo-rainbow/dsp/firconv"
	"github.com/cwbudde/algo-rainbow/dsp/firkernel"
	"github.com/cwbudde/algo-rainbow/dsp/postfx"
	"github.com/cwbudde/algo-rainbow/dsp/wavetable"
)

const (
	// MaxChannels is the largest supported channel count.
	MaxChannels = 12

	// blockAlign is the frame-count granularity of the render callback.
	blockAlign = 4

	defaultChannels   = 1
	defaultKernelSize = 64
	defaultPosition   = 0.5
	defaultDepth      = 0.5

	minGainDB = -24.0
	maxGainDB = 24.0
)

// Option mutates construction-time parameters.
type Option func(*config) error

type config struct {
	channels   int
	inBuses    []int
	outBuses   []int
	outMode    postfx.OutputMode
	chanModes  map[int]postfx.OutputMode
	kernelSize int
	loader     wavetable.Loader
	table      *wavetable.Table
	position   float64
	spread     float64
	depth      float64
	saturation float64
	gainDB     float64
}

func defaultConfig() config {
	return config{
		channels:   defaultChannels,
		outMode:    postfx.OutputReplace,
		kernelSize: defaultKernelSize,
		position:   defaultPosition,
		depth:      defaultDepth,
	}
}

// WithChannels sets the number of audio channels in [1, 12].
func WithChannels(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > MaxChannels {
			return fmt.Errorf("rainbow: channels must be in [1, %d]: %d", MaxChannels, n)
		}

		cfg.channels = n

		return nil
	}
}

// WithInputBuses assigns one input bus per channel. The slice length must
// equal the channel count; default is bus c for channel c.
func WithInputBuses(buses []int) Option {
	return func(cfg *config) error {
		cfg.inBuses = append([]int(nil), buses...)
		return nil
	}
}

// WithOutputBuses assigns one output bus per channel. The slice length must
// equal the channel count; default is bus c for channel c.
func WithOutputBuses(buses []int) Option {
	return func(cfg *config) error {
		cfg.outBuses = append([]int(nil), buses...)
		return nil
	}
}

// WithOutputMode sets the write mode for every channel.
func WithOutputMode(mode postfx.OutputMode) Option {
	return func(cfg *config) error {
		if !postfx.ValidOutputMode(mode) {
			return fmt.Errorf("rainbow: output mode is invalid: %d", mode)
		}

		cfg.outMode = mode

		return nil
	}
}

// WithChannelOutputMode overrides the write mode for one channel.
func WithChannelOutputMode(channel int, mode postfx.OutputMode) Option {
	return func(cfg *config) error {
		if channel < 0 || channel >= MaxChannels {
			return fmt.Errorf("rainbow: channel must be in [0, %d]: %d", MaxChannels-1, channel)
		}

		if !postfx.ValidOutputMode(mode) {
			return fmt.Errorf("rainbow: output mode is invalid: %d", mode)
		}

		if cfg.chanModes == nil {
			cfg.chanModes = make(map[int]postfx.OutputMode)
		}

		cfg.chanModes[channel] = mode

		return nil
	}
}

// WithKernelSize selects the FIR kernel length, one of the supported
// wavetable resolutions.
func WithKernelSize(size int) Option {
	return func(cfg *config) error {
		if !supportedKernelSize(size) {
			return fmt.Errorf("rainbow: kernel size must be one of %v: %d", wavetable.MipSizes(), size)
		}

		cfg.kernelSize = size

		return nil
	}
}

// WithLoader configures the asynchronous wavetable source for RequestLoad.
func WithLoader(l wavetable.Loader) Option {
	return func(cfg *config) error {
		if l == nil {
			return errors.New("rainbow: loader must not be nil")
		}

		cfg.loader = l

		return nil
	}
}

// WithTable installs a wavetable synchronously at construction.
func WithTable(t *wavetable.Table) Option {
	return func(cfg *config) error {
		if t == nil {
			return errors.New("rainbow: table must not be nil")
		}

		cfg.table = t

		return nil
	}
}

// WithPosition seeds the wavetable read position in [0, 1].
func WithPosition(p float64) Option {
	return func(cfg *config) error {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("rainbow: position must be in [0, 1]: %f", p)
		}

		cfg.position = p

		return nil
	}
}

// WithSpread seeds the per-channel position spread in [0, 1].
func WithSpread(s float64) Option {
	return func(cfg *config) error {
		if s < 0 || s > 1 || math.IsNaN(s) {
			return fmt.Errorf("rainbow: spread must be in [0, 1]: %f", s)
		}

		cfg.spread = s

		return nil
	}
}

// WithDepth seeds the wet/dry depth in [0, 1].
func WithDepth(d float64) Option {
	return func(cfg *config) error {
		if d < 0 || d > 1 || math.IsNaN(d) {
			return fmt.Errorf("rainbow: depth must be in [0, 1]: %f", d)
		}

		cfg.depth = d

		return nil
	}
}

// WithSaturation seeds the saturation amount in [0, 1].
func WithSaturation(a float64) Option {
	return func(cfg *config) error {
		if a < 0 || a > 1 || math.IsNaN(a) {
			return fmt.Errorf("rainbow: saturation must be in [0, 1]: %f", a)
		}

		cfg.saturation = a

		return nil
	}
}

// WithGainDB seeds the output gain in [-24, 24] dB.
func WithGainDB(db float64) Option {
	return func(cfg *config) error {
		if db < minGainDB || db > maxGainDB || math.IsNaN(db) {
			return fmt.Errorf("rainbow: gain must be in [%g, %g] dB: %f", minGainDB, maxGainDB, db)
		}

		cfg.gainDB = db

		return nil
	}
}

// Effect is one instance of the wavetable convolution effect. All state is
// owned by the instance; there are no process-wide singletons.
type Effect struct {
	sampleRate float64
	channels   int
	inBuses    []int
	outBuses   []int
	outMode    []postfx.OutputMode

	position   float64
	spread     float64
	depth      float64
	saturation float64
	gainDB     float64
	kernelSize int

	gain float64
	sat  *postfx.Saturator

	table      *wavetable.Table
	tableIndex int
	loader     wavetable.Loader

	engines []*firconv.Engine
	fade    *firconv.Crossfade

	mailbox   chan loadResult
	loading   bool
	queued    int
	hasQueued bool

	loadErr  error
	buildErr error
}

// New creates an effect instance with validated options.
func New(sampleRate float64, opts ...Option) (*Effect, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("rainbow: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	inBuses, err := resolveBuses(cfg.inBuses, cfg.channels, "input")
	if err != nil {
		return nil, err
	}

	outBuses, err := resolveBuses(cfg.outBuses, cfg.channels, "output")
	if err != nil {
		return nil, err
	}

	outMode := make([]postfx.OutputMode, cfg.channels)
	for c := range outMode {
		outMode[c] = cfg.outMode
		if m, ok := cfg.chanModes[c]; ok {
			outMode[c] = m
		}
	}

	sat, err := postfx.NewSaturator(cfg.saturation)
	if err != nil {
		return nil, err
	}

	fade, err := firconv.NewCrossfade(sampleRate)
	if err != nil {
		return nil, err
	}

	engines := make([]*firconv.Engine, cfg.channels)
	for c := range engines {
		engines[c] = firconv.NewEngine()
	}

	e := &Effect{
		sampleRate: sampleRate,
		channels:   cfg.channels,
		inBuses:    inBuses,
		outBuses:   outBuses,
		outMode:    outMode,
		position:   cfg.position,
		spread:     cfg.spread,
		depth:      cfg.depth,
		saturation: cfg.saturation,
		gainDB:     cfg.gainDB,
		kernelSize: cfg.kernelSize,
		sat:        sat,
		tableIndex: -1,
		loader:     cfg.loader,
		engines:    engines,
		fade:       fade,
		mailbox:    make(chan loadResult, 1),
	}

	e.updateDerived()

	if cfg.table != nil {
		e.table = cfg.table
		e.rebuildKernels()

		if e.buildErr != nil {
			return nil, e.buildErr
		}
	}

	return e, nil
}

func resolveBuses(buses []int, channels int, kind string) ([]int, error) {
	if buses == nil {
		out := make([]int, channels)
		for c := range out {
			out[c] = c
		}

		return out, nil
	}

	if len(buses) != channels {
		return nil, fmt.Errorf("rainbow: %s buses length must equal channels (%d): %d", kind, channels, len(buses))
	}

	out := make([]int, channels)

	for c, b := range buses {
		if b < 0 {
			return nil, fmt.Errorf("rainbow: %s bus for channel %d must be >= 0: %d", kind, c, b)
		}

		out[c] = b
	}

	return out, nil
}

func supportedKernelSize(size int) bool {
	for _, s := range wavetable.MipSizes() {
		if s == size {
			return true
		}
	}

	return false
}

// Process renders one block: for every channel, read the input bus, convolve,
// mix, saturate, apply gain, and write to the output bus in the channel's
// output mode. The frame count must be a positive multiple of 4. A completed
// asynchronous load is adopted before any sample is rendered.
func (e *Effect) Process(frames *BusFrames) error {
	if frames == nil {
		return errors.New("rainbow: frames must not be nil")
	}

	e.drainLoad()

	n := frames.Frames()
	if n <= 0 || n%blockAlign != 0 {
		return fmt.Errorf("rainbow: frame count must be a positive multiple of %d: %d", blockAlign, n)
	}

	depth := e.depth
	gain := e.gain
	fading := e.fade.Active()

	for c := 0; c < e.channels; c++ {
		in, err := frames.Channel(e.inBuses[c])
		if err != nil {
			return err
		}

		out, err := frames.Channel(e.outBuses[c])
		if err != nil {
			return err
		}

		eng := e.engines[c]
		mode := e.outMode[c]

		for i := 0; i < n; i++ {
			dry := float64(in[i])

			var wet float64
			if fading {
				wet = eng.ProcessSampleBlend(dry, e.fade.RatioAt(i))
			} else {
				wet = eng.ProcessSample(dry)
			}

			mixed := postfx.Mix(dry, wet, depth)
			mixed = e.sat.ProcessSample(mixed)
			mixed *= gain

			postfx.WriteSample(out, i, mixed, mode)
		}
	}

	if e.fade.Advance(n) {
		for _, eng := range e.engines {
			eng.Promote()
		}
	}

	return nil
}

// Reset clears delay lines, any active crossfade, and the recorded load
// error. Parameters and the installed table are kept; kernels are rebuilt
// from them.
func (e *Effect) Reset() {
	for _, eng := range e.engines {
		eng.Reset()
	}

	e.fade.Reset()
	e.loadErr = nil
	e.rebuildKernels()
}

// updateDerived re-derives every cached quantity from the current parameter
// set.
func (e *Effect) updateDerived() {
	e.gain = core.DBToLinear(e.gainDB)

	// Amount is clamped before it gets here.
	_ = e.sat.SetAmount(e.saturation)
}

// rebuildKernels derives kernels for every channel from the current
// parameters and installs them: adopted immediately while the engines are
// still in bypass, staged behind a crossfade once a kernel is already active.
// A build failure keeps the previous kernels and is recorded for Status.
func (e *Effect) rebuildKernels() {
	if e.table == nil {
		return
	}

	size := e.kernelSize
	if !e.table.HasSize(size) {
		size = e.table.NearestSize(size)
	}

	kernels := make([]*firkernel.Kernel, e.channels)

	if firkernel.SharedAcrossChannels(e.channels, e.spread) {
		k, err := firkernel.Build(e.table, e.position, 0, size)
		if err != nil {
			e.buildErr = err
			return
		}

		for c := range kernels {
			kernels[c] = k
		}
	} else {
		for c := range kernels {
			k, err := firkernel.Build(e.table, e.position, firkernel.ChannelOffset(c, e.channels, e.spread), size)
			if err != nil {
				e.buildErr = err
				return
			}

			kernels[c] = k
		}
	}

	e.buildErr = nil

	if e.engines[0].Bypassed() {
		for c, eng := range e.engines {
			eng.Adopt(kernels[c])
		}

		return
	}

	for c, eng := range e.engines {
		eng.Stage(kernels[c])
	}

	e.fade.Start()
}
