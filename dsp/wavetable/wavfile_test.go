package wavetable

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeWavFile writes a minimal PCM16 WAV with interleaved samples.
func writeWavFile(t *testing.T, path string, channels int, sampleRate int, samples []int16) {
	t.Helper()

	var buf bytes.Buffer

	dataSize := uint32(len(samples) * 2)
	blockAlign := uint16(channels * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate)*uint32(blockAlign))
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func TestLoadFileMono(t *testing.T) {
	samples := make([]int16, 128)
	for i := range samples {
		samples[i] = int16(i * 50)
	}

	path := filepath.Join(t.TempDir(), "bank.wav")
	writeWavFile(t, path, 1, 48000, samples)

	tbl, err := LoadFile(path, 64)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if tbl.Name() != "bank" {
		t.Fatalf("Name() = %q, expected %q", tbl.Name(), "bank")
	}

	if tbl.NumWaves() != 2 {
		t.Fatalf("NumWaves() = %d, expected 2", tbl.NumWaves())
	}

	wave, err := tbl.Wave(1, 64)
	if err != nil {
		t.Fatalf("Wave(1, 64): %v", err)
	}

	for i, v := range wave {
		want := samples[64+i]
		if v != want {
			t.Fatalf("wave 1 sample %d = %d, expected %d", i, v, want)
		}
	}
}

func TestLoadFileStereoFold(t *testing.T) {
	// 64 frames of L=1000, R=3000 fold to 2000.
	samples := make([]int16, 128)
	for i := 0; i < 64; i++ {
		samples[2*i] = 1000
		samples[2*i+1] = 3000
	}

	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWavFile(t, path, 2, 44100, samples)

	tbl, err := LoadFile(path, 64)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if tbl.NumWaves() != 1 {
		t.Fatalf("NumWaves() = %d, expected 1", tbl.NumWaves())
	}

	wave, err := tbl.Wave(0, 64)
	if err != nil {
		t.Fatalf("Wave(0, 64): %v", err)
	}

	for i, v := range wave {
		if v != 2000 {
			t.Fatalf("sample %d = %d, expected 2000", i, v)
		}
	}
}

func TestLoadFileTruncatesPartialFrame(t *testing.T) {
	samples := make([]int16, 100)

	path := filepath.Join(t.TempDir(), "short.wav")
	writeWavFile(t, path, 1, 48000, samples)

	tbl, err := LoadFile(path, 64)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if tbl.NumWaves() != 1 {
		t.Fatalf("NumWaves() = %d, expected 1", tbl.NumWaves())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFile(filepath.Join(dir, "missing.wav"), 64); err == nil {
		t.Fatal("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFile(garbage, 64); err == nil {
		t.Fatal("expected error for invalid file")
	}

	tiny := filepath.Join(dir, "tiny.wav")
	writeWavFile(t, tiny, 1, 48000, make([]int16, 32))

	if _, err := LoadFile(tiny, 64); err == nil {
		t.Fatal("expected error when no whole frame fits")
	}
}
