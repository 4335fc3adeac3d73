package postfx_test

import (
	"fmt"

	"github.com/cwbudde/algo-rainbow/dsp/postfx"
)

func ExampleMix() {
	fmt.Println(postfx.Mix(1, 0, 0.25))
	// Output: 0.75
}

func ExampleSaturator_ProcessSample() {
	s, err := postfx.NewSaturator(0.5)
	if err != nil {
		panic(err)
	}

	// Full-scale input stays full-scale; mid-level input is pushed up.
	fmt.Println(s.ProcessSample(1))
	fmt.Println(s.ProcessSample(0.3) > 0.3)
	// Output:
	// 1
	// true
}

func ExampleWriteSample() {
	bus := []float32{0.25, 0.25}

	postfx.WriteSample(bus, 0, 0.5, postfx.OutputReplace)
	postfx.WriteSample(bus, 1, 0.5, postfx.OutputAdd)

	fmt.Println(bus[0], bus[1])
	// Output: 0.5 0.75
}
