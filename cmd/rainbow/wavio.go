package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/cwbudde/wav"
	"github.com/ebitengine/oto/v3"
)

// readWAV decodes a PCM WAV file into interleaved float32 samples in [-1, 1].
func readWAV(path string) (samples []float32, channels, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("invalid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, err
	}

	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, 0, fmt.Errorf("invalid wav buffer: %s", path)
	}

	if buf.Format.SampleRate <= 0 {
		return nil, 0, 0, fmt.Errorf("invalid wav sample rate: %d", buf.Format.SampleRate)
	}

	if len(buf.Data) == 0 {
		return nil, 0, 0, fmt.Errorf("empty wav data: %s", path)
	}

	return buf.Data, buf.Format.NumChannels, buf.Format.SampleRate, nil
}

// writeWAV writes interleaved float32 samples as a 16-bit PCM WAV file.
func writeWAV(path string, samples []float32, channels, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bytesPerSample = 2

	dataSize := uint32(len(samples) * bytesPerSample)

	if _, err := f.WriteString("RIFF"); err != nil {
		return err
	}

	if err := binary.Write(f, binary.LittleEndian, 36+dataSize); err != nil {
		return err
	}

	if _, err := f.WriteString("WAVEfmt "); err != nil {
		return err
	}

	hdr := []any{
		uint32(16), // fmt chunk size
		uint16(1),  // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(sampleRate * channels * bytesPerSample), // byte rate
		uint16(channels * bytesPerSample),              // block align
		uint16(8 * bytesPerSample),                     // bits per sample
	}

	for _, v := range hdr {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if _, err := f.WriteString("data"); err != nil {
		return err
	}

	if err := binary.Write(f, binary.LittleEndian, dataSize); err != nil {
		return err
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * 32767)
		if v > 32767 {
			v = 32767
		}

		if v < -32768 {
			v = -32768
		}

		pcm[i] = int16(v)
	}

	return binary.Write(f, binary.LittleEndian, pcm)
}

// playback plays interleaved float32 samples through the default audio device
// and blocks until the stream drains.
func playback(samples []float32, channels, sampleRate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	raw := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(raw[4*i:], math.Float32bits(s))
	}

	p := ctx.NewPlayer(bytes.NewReader(raw))
	p.Play()

	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	return p.Close()
}
