package window_test

import (
	"fmt"

	"github.com/cwbudde/algo-soundclock/dsp/window"
)

func ExampleGenerate() {
	w := window.Generate(window.TypeHann, 4, window.WithPeriodic())
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.50 1.00 0.50
}

func ExampleMultiply() {
	burst := []float64{1, 1, 1, 1, 1}
	_ = window.Multiply(burst, window.Generate(window.TypeHann, len(burst)))
	fmt.Printf("%.2f\n", burst)
	// Output:
	// [0.00 0.50 1.00 0.50 0.00]
}

func ExampleInfo() {
	m := window.Info(window.TypeHann)
	fmt.Printf("%s ENBW=%.1f CG=%.2f\n", m.Name, m.ENBW, m.CoherentGain)
	// Output:
	// Hann ENBW=1.5 CG=0.50
}
