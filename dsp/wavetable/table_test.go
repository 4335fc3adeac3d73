package wavetable

import (
	"testing"
)

func rampFrame(n int) []int16 {
	f := make([]int16, n)
	for i := range f {
		f[i] = int16(i)
	}

	return f
}

func TestFromFramesValidation(t *testing.T) {
	cases := []struct {
		name   string
		frames [][]int16
	}{
		{name: "no frames", frames: nil},
		{name: "too short", frames: [][]int16{make([]int16, 32)}},
		{name: "not power of two", frames: [][]int16{make([]int16, 96)}},
		{name: "mismatched lengths", frames: [][]int16{make([]int16, 64), make([]int16, 128)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromFrames("bad", tc.frames); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFromFramesSizes(t *testing.T) {
	cases := []struct {
		name      string
		frameLen  int
		wantSizes []int
		multiRes  bool
	}{
		{name: "single level", frameLen: 64, wantSizes: []int{64}, multiRes: false},
		{name: "two levels", frameLen: 128, wantSizes: []int{64, 128}, multiRes: true},
		{name: "full set", frameLen: 512, wantSizes: []int{64, 128, 256, 512}, multiRes: true},
		{name: "oversized source", frameLen: 2048, wantSizes: []int{64, 128, 256, 512}, multiRes: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := FromFrames("t", [][]int16{rampFrame(tc.frameLen)})
			if err != nil {
				t.Fatalf("FromFrames: %v", err)
			}

			got := tbl.Sizes()
			if len(got) != len(tc.wantSizes) {
				t.Fatalf("Sizes() = %v, want %v", got, tc.wantSizes)
			}

			for i := range got {
				if got[i] != tc.wantSizes[i] {
					t.Fatalf("Sizes() = %v, want %v", got, tc.wantSizes)
				}
			}

			if tbl.MultiRes() != tc.multiRes {
				t.Fatalf("MultiRes() = %v, want %v", tbl.MultiRes(), tc.multiRes)
			}
		})
	}
}

func TestDecimationAverages(t *testing.T) {
	frame := make([]int16, 128)
	for i := range frame {
		frame[i] = int16(100 * i)
	}

	tbl, err := FromFrames("ramp", [][]int16{frame})
	if err != nil {
		t.Fatalf("FromFrames: %v", err)
	}

	w64, err := tbl.Wave(0, 64)
	if err != nil {
		t.Fatalf("Wave(0, 64): %v", err)
	}

	for i, v := range w64 {
		want := int16((100*2*i + 100*(2*i+1)) / 2)
		if v != want {
			t.Fatalf("mip 64 sample %d = %d, expected %d", i, v, want)
		}
	}

	// Full resolution is preserved untouched.
	w128, err := tbl.Wave(0, 128)
	if err != nil {
		t.Fatalf("Wave(0, 128): %v", err)
	}

	for i, v := range w128 {
		if v != frame[i] {
			t.Fatalf("mip 128 sample %d = %d, expected %d", i, v, frame[i])
		}
	}
}

func TestWaveErrors(t *testing.T) {
	tbl, err := FromFrames("t", [][]int16{rampFrame(64), rampFrame(64)})
	if err != nil {
		t.Fatalf("FromFrames: %v", err)
	}

	if _, err := tbl.Wave(0, 128); err == nil {
		t.Fatal("expected error for unavailable size")
	}

	if _, err := tbl.Wave(-1, 64); err == nil {
		t.Fatal("expected error for negative index")
	}

	if _, err := tbl.Wave(2, 64); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestNearestSize(t *testing.T) {
	tbl, err := FromFrames("t", [][]int16{rampFrame(256)})
	if err != nil {
		t.Fatalf("FromFrames: %v", err)
	}

	cases := []struct {
		size int
		want int
	}{
		{size: 64, want: 64},
		{size: 100, want: 128},
		{size: 512, want: 256},
		{size: 1, want: 64},
		{size: 96, want: 64},
	}

	for _, tc := range cases {
		if got := tbl.NearestSize(tc.size); got != tc.want {
			t.Fatalf("NearestSize(%d) = %d, expected %d", tc.size, got, tc.want)
		}
	}
}

func TestMipSizesCopy(t *testing.T) {
	s := MipSizes()
	s[0] = 1

	if got := MipSizes()[0]; got != 64 {
		t.Fatalf("MipSizes()[0] = %d after caller mutation, expected 64", got)
	}
}
