package rainbow_test

import (
	"fmt"
	"log"

	rainbow "github.com/cwbudde/algo-rainbow"
	"github.com/cwbudde/algo-rainbow/dsp/wavetable"
)

// Example renders an impulse through a sine-to-saw wavetable kernel and
// reports the installed table.
func Example() {
	table, err := wavetable.Generate("basic", []wavetable.ShapeFunc{
		wavetable.Sine, wavetable.Saw,
	}, 256)
	if err != nil {
		log.Fatal(err)
	}

	effect, err := rainbow.New(48000,
		rainbow.WithTable(table),
		rainbow.WithDepth(1),
		rainbow.WithPosition(0),
	)
	if err != nil {
		log.Fatal(err)
	}

	frames, err := rainbow.NewBusFrames(1, 64)
	if err != nil {
		log.Fatal(err)
	}

	in, _ := frames.Channel(0)
	in[0] = 1

	if err := effect.Process(frames); err != nil {
		log.Fatal(err)
	}

	s := effect.Status()
	fmt.Printf("table %s, %d waves, %d taps\n", s.TableName, s.NumWaves, s.KernelSize)

	// Output:
	// table basic, 2 waves, 64 taps
}

// ExampleEffect_Process shows that zero depth leaves the signal untouched.
func ExampleEffect_Process() {
	effect, err := rainbow.New(48000, rainbow.WithDepth(0))
	if err != nil {
		log.Fatal(err)
	}

	frames, err := rainbow.NewBusFrames(1, 4)
	if err != nil {
		log.Fatal(err)
	}

	buf, _ := frames.Channel(0)
	buf[0], buf[1] = 0.5, -0.25

	if err := effect.Process(frames); err != nil {
		log.Fatal(err)
	}

	fmt.Println(buf[0], buf[1])

	// Output:
	// 0.5 -0.25
}
