package wavetable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wav"
)

// LoadFile reads a PCM WAV file and slices it into consecutive single-cycle
// frames of frameLen samples. Multi-channel files are folded to mono by
// averaging; trailing samples that do not fill a whole frame are dropped.
// The table name is the file name without its extension.
func LoadFile(path string, frameLen int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavetable: invalid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("wavetable: invalid wav buffer: %s", path)
	}

	numCh := buf.Format.NumChannels
	numFrames := len(buf.Data) / numCh
	if numFrames == 0 {
		return nil, fmt.Errorf("wavetable: empty wav data: %s", path)
	}

	mono := make([]int16, numFrames)
	for i := range mono {
		sum := 0.0
		for c := 0; c < numCh; c++ {
			sum += float64(buf.Data[i*numCh+c])
		}

		mono[i] = quantize(sum / float64(numCh))
	}

	numWaves := len(mono) / frameLen
	if numWaves == 0 {
		return nil, fmt.Errorf("wavetable: %s holds %d samples, need at least one frame of %d", path, len(mono), frameLen)
	}

	frames := make([][]int16, numWaves)
	for w := range frames {
		frames[w] = mono[w*frameLen : (w+1)*frameLen]
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return FromFrames(name, frames)
}
