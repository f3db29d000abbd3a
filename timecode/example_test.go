package timecode_test

import (
	"fmt"

	"github.com/cwbudde/algo-soundclock/timecode"
)

func ExampleEncoder_Encode() {
	enc, _ := timecode.NewEncoder()
	frame, _ := enc.Encode(timecode.ClockTime{Hour: 6, Minute: 30})

	peak := 0.0
	for _, v := range frame {
		peak = max(peak, v, -v)
	}
	fmt.Printf("%d samples, peak %.2f\n", len(frame), peak)
	// Output:
	// 35280 samples, peak 1.00
}

func ExampleDecoder_Decode() {
	enc, _ := timecode.NewEncoder()
	dec, _ := timecode.NewDecoder()

	frame, _ := enc.Encode(timecode.ClockTime{Hour: 9, Minute: 30, Second: 2})
	est, ok := dec.Decode(frame)
	fmt.Println(est.Hour, est.Minute, est.Pulses, ok)
	// Output:
	// 9 30 3 true
}

func ExampleLookupInstrument() {
	for _, h := range []int{3, 9, 15, 21} {
		in := timecode.LookupInstrument(h)
		fmt.Printf("%02d %s %s %.0f Hz\n", h, in.Name, in.Shape, timecode.HourFrequency(in.BaseHz, h))
	}
	// Output:
	// 03 night sine 65 Hz
	// 09 morning triangle 185 Hz
	// 15 day square 523 Hz
	// 21 evening sawtooth 370 Hz
}

func ExampleSpan() {
	from, _ := timecode.ParseClockTime("23:59:58")
	to, _ := timecode.ParseClockTime("00:00:01")
	fmt.Println(timecode.Span(from, to, 1))
	// Output:
	// [23:59:58 23:59:59 00:00:00 00:00:01]
}
