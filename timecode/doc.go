// Package timecode encodes wall-clock times as short polyphonic audio frames
// and recovers (hour, minute) from such frames by spectral search.
//
// A frame carries three kinds of voices:
//
//   - an hour tone, base*2^(hour/12), using the timbre of the hour's
//     [Instrument];
//   - a sine minute tone, either snapped to one of 12 semitone steps
//     (5-minute resolution, the default) or swept continuously above the
//     hour tone;
//   - a train of (second mod 4)+1 short 880 Hz ticks whose loudness
//     alternates with the parity of the second.
//
// [Decoder] cuts a signal into frame-sized windows, finds the dominant spectral
// peaks in each, scores every (hour, minute) hypothesis against them and
// aggregates the accepted windows by median. Decoding is lossy: minutes come
// back at the resolution of the chosen mapping and seconds are only estimated
// modulo 4.
package timecode
