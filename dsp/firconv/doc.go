// Package firconv provides the per-channel streaming FIR convolution engine
// and the crossfade controller that swaps kernels without audible glitches.
//
// # Engine
//
// An Engine owns one circular delay line and convolves every input sample
// against the active kernel:
//
//	eng := firconv.NewEngine()
//	eng.Adopt(kernel)
//	for i := range in {
//		out[i] = eng.ProcessSample(in[i])
//	}
//
// The delay line uses a doubled-buffer layout: every sample is written twice,
// MaxTaps slots apart, so the most recent K samples are always readable as one
// contiguous ascending window and the inner loop needs no index masking. The
// write cursor wraps with a power-of-two bitmask. Until a kernel has been
// adopted the engine is bypassed and returns its input unchanged; the delay
// line still advances so adoption starts with warm history.
//
// # Kernel swaps
//
// Replacing a kernel mid-stream would step the filter coefficients and click.
// Instead, the replacement is staged as a pending kernel and both kernels run
// during a short ramp:
//
//	eng.Stage(next)
//	fade.Start()
//	...
//	out[i] = eng.ProcessSampleBlend(in[i], fade.RatioAt(i))
//
// ProcessSampleBlend convolves against both kernels and linearly crossfades
// the two wet outputs. Blending the outputs is mathematically equivalent to
// blending the kernels themselves but avoids rebuilding a mixed kernel every
// sample. Current and pending kernels may differ in length; the doubled delay
// line serves both windows from the same history.
//
// # Crossfade
//
// A single Crossfade drives the ramp for all channels. It is not tied to any
// particular channel: RatioAt(i) is a pure function of the block-start ratio,
// so every channel observes the identical ratio for a given frame index no
// matter the order channels are processed in. Advance commits a whole block
// and reports completion, at which point the caller promotes the pending
// kernel on every engine:
//
//	if fade.Advance(numFrames) {
//		for _, eng := range engines {
//			eng.Promote()
//		}
//	}
//
// The ramp spans a fixed 50 ms of wall-clock time regardless of sample rate.
package firconv
