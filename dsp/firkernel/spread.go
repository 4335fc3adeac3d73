package firkernel

import "math"

// sharedSpreadThreshold is the spread amount below which all channels read
// the same position.
const sharedSpreadThreshold = 1e-3

// ChannelOffset returns the position offset for one channel: offsets are
// symmetric around zero, spanning [-spread/2, spread/2] across the channels.
// A single channel has no offset.
func ChannelOffset(channel, numChannels int, spread float64) float64 {
	if numChannels <= 1 {
		return 0
	}

	if channel < 0 {
		channel = 0
	}

	if channel > numChannels-1 {
		channel = numChannels - 1
	}

	return spread * (float64(channel)/float64(numChannels-1) - 0.5)
}

// SharedAcrossChannels reports whether every channel can share one kernel:
// true for a single channel or a spread too small to matter.
func SharedAcrossChannels(numChannels int, spread float64) bool {
	return numChannels <= 1 || math.Abs(spread) < sharedSpreadThreshold
}
