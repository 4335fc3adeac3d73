// Command rainbow runs the wavetable FIR convolution effect over a WAV file.
//
// Usage:
//
//	rainbow [flags] -in input.wav -out output.wav
//
// The kernel wavetable comes from a single-cycle WAV bank (-table) or from
// the built-in shape bank when no table is given.
//
// Examples:
//
//	rainbow -in drums.wav -out out.wav -position 0.3 -depth 0.8
//	rainbow -in drums.wav -out out.wav -table bank.wav -framelen 512 -sweep
//	rainbow -in drums.wav -play -depth 1 -saturation 0.5
//	rainbow -table bank.wav -status
//	rainbow -response 8
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	rainbow "github.com/cwbudde/algo-rainbow"
	"github.com/cwbudde/algo-rainbow/dsp/core"
	"github.com/cwbudde/algo-rainbow/dsp/firkernel"
	"github.com/cwbudde/algo-rainbow/dsp/wavetable"
	"github.com/cwbudde/algo-rainbow/internal/vecmath"
)

func main() {
	in := flag.String("in", "", "input WAV path")
	out := flag.String("out", "", "output WAV path")
	table := flag.String("table", "", "wavetable WAV path (single-cycle bank)")
	frameLen := flag.Int("framelen", 512, "single-cycle frame length of the wavetable bank")
	position := flag.Float64("position", 0.5, "wavetable read position, 0..1")
	spread := flag.Float64("spread", 0, "per-channel position spread, 0..1")
	depth := flag.Float64("depth", 0.5, "wet/dry depth, 0..1")
	gain := flag.Float64("gain", 0, "output gain in dB, -24..24")
	saturation := flag.Float64("saturation", 0, "soft-saturation amount, 0..1")
	size := flag.Int("size", 64, "FIR kernel length (64, 128, 256, 512)")
	block := flag.Int("block", 256, "render block size in frames")
	sweep := flag.Bool("sweep", false, "sweep the position from 0 to 1 over the file")
	normalize := flag.Bool("normalize", false, "scale the output so its peak lands at -1 dBFS")
	play := flag.Bool("play", false, "play the processed audio")
	status := flag.Bool("status", false, "print effect status and exit")
	response := flag.Int("response", 0, "print the kernel's frequency response with N bins per row and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rainbow [flags] -in input.wav -out output.wav\n\n")
		fmt.Fprintf(os.Stderr, "Convolves a WAV file with a kernel read from a wavetable.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	tbl, err := resolveTable(*table, *frameLen)
	if err != nil {
		fatalf("%v", err)
	}

	if *response > 0 {
		printResponse(tbl, *position, *size, *response)
		return
	}

	if *status {
		e, err := rainbow.New(48000, effectOptions(tbl, 1, *position, *spread, *depth, *gain, *saturation, *size)...)
		if err != nil {
			fatalf("%v", err)
		}

		printStatus(e.Status())

		return
	}

	if *in == "" {
		fatalf("no input file (use -in, or -status / -response)")
	}

	if *out == "" && !*play {
		fatalf("no destination (use -out and/or -play)")
	}

	samples, channels, sampleRate, err := readWAV(*in)
	if err != nil {
		fatalf("read %s: %v", *in, err)
	}

	if channels > rainbow.MaxChannels {
		fatalf("%s has %d channels, at most %d supported", *in, channels, rainbow.MaxChannels)
	}

	e, err := rainbow.New(float64(sampleRate), effectOptions(tbl, channels, *position, *spread, *depth, *gain, *saturation, *size)...)
	if err != nil {
		fatalf("%v", err)
	}

	rendered, err := render(e, samples, channels, *block, *sweep)
	if err != nil {
		fatalf("render: %v", err)
	}

	if *normalize {
		rendered = normalizePeak(rendered)
	}

	if *out != "" {
		if err := writeWAV(*out, rendered, channels, sampleRate); err != nil {
			fatalf("write %s: %v", *out, err)
		}
	}

	if *play {
		if err := playback(rendered, channels, sampleRate); err != nil {
			fatalf("playback: %v", err)
		}
	}

	printStatus(e.Status())
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// resolveTable loads the bank file, or falls back to the built-in shapes.
func resolveTable(path string, frameLen int) (*wavetable.Table, error) {
	if path == "" {
		return wavetable.Generate("basic", []wavetable.ShapeFunc{
			wavetable.Sine, wavetable.Triangle, wavetable.Square, wavetable.Saw,
		}, 512)
	}

	return wavetable.LoadFile(path, frameLen)
}

func effectOptions(tbl *wavetable.Table, channels int, position, spread, depth, gain, saturation float64, size int) []rainbow.Option {
	return []rainbow.Option{
		rainbow.WithTable(tbl),
		rainbow.WithChannels(channels),
		rainbow.WithPosition(position),
		rainbow.WithSpread(spread),
		rainbow.WithDepth(depth),
		rainbow.WithGainDB(gain),
		rainbow.WithSaturation(saturation),
		rainbow.WithKernelSize(size),
	}
}

// render runs the interleaved samples through the effect block by block. With
// sweep enabled the position ramps from 0 to 1 over the file, one step per
// block, so every edit rides a crossfade. The final partial block is padded
// with silence to the effect's frame alignment.
func render(e *rainbow.Effect, samples []float32, channels, block int, sweep bool) ([]float32, error) {
	if block < 4 {
		return nil, fmt.Errorf("block size must be >= 4: %d", block)
	}

	block -= block % 4

	totalFrames := len(samples) / channels
	out := make([]float32, 0, len(samples))

	frames, err := rainbow.NewBusFrames(channels, block)
	if err != nil {
		return nil, err
	}

	numBlocks := (totalFrames + block - 1) / block

	for b := 0; b < numBlocks; b++ {
		if sweep && numBlocks > 1 {
			if err := e.SetPosition(float64(b) / float64(numBlocks-1)); err != nil {
				return nil, err
			}
		}

		start := b * block * channels
		end := start + block*channels

		chunk := make([]float32, block*channels)
		if end > len(samples) {
			copy(chunk, samples[start:])
		} else {
			copy(chunk, samples[start:end])
		}

		if err := frames.FromInterleaved(chunk); err != nil {
			return nil, err
		}

		if err := e.Process(frames); err != nil {
			return nil, err
		}

		if err := frames.ToInterleaved(chunk); err != nil {
			return nil, err
		}

		out = append(out, chunk...)
	}

	return out[:totalFrames*channels], nil
}

// normalizePeak rescales samples so the loudest one lands at -1 dBFS.
// Silence is returned untouched.
func normalizePeak(samples []float32) []float32 {
	buf := make([]float64, len(samples))
	for i, s := range samples {
		buf[i] = float64(s)
	}

	peak := vecmath.MaxAbs(buf)
	if peak == 0 {
		return samples
	}

	scaled := make([]float64, len(buf))
	vecmath.ScaleBlock(scaled, buf, core.DBToLinear(-1)/peak)

	for i, s := range scaled {
		samples[i] = float32(s)
	}

	return samples
}

// printStatus renders the effect status as an aligned table.
func printStatus(s rainbow.Status) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Table\t%s\n", orDash(s.TableName))
	fmt.Fprintf(tw, "Waves\t%d\n", s.NumWaves)
	fmt.Fprintf(tw, "Multi-res\t%t\n", s.MultiRes)
	fmt.Fprintf(tw, "Kernel taps\t%d\n", s.KernelSize)
	fmt.Fprintf(tw, "Channels\t%d\n", s.Channels)
	fmt.Fprintf(tw, "Position\t%.3f\n", s.Position)

	if s.Err != nil {
		fmt.Fprintf(tw, "Error\t%v\n", s.Err)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

// printResponse builds the kernel at the given position and prints its
// magnitude response, cols bins per row.
func printResponse(tbl *wavetable.Table, position float64, size, cols int) {
	k, err := firkernel.Build(tbl, position, 0, size)
	if err != nil {
		fatalf("%v", err)
	}

	mags, err := k.Response(2 * size)
	if err != nil {
		fatalf("%v", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for i := 0; i < len(mags); i += cols {
		end := i + cols
		if end > len(mags) {
			end = len(mags)
		}

		fmt.Fprintf(tw, "%d", i)

		for _, m := range mags[i:end] {
			fmt.Fprintf(tw, "\t%.4f", m)
		}

		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
