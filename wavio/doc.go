// Package wavio converts sample slices to and from mono WAV containers.
//
// Writing supports 16-bit PCM and 32-bit IEEE float. Reading accepts 8, 16,
// 24 and 32-bit PCM as well as 32-bit float, and downmixes multi-channel
// files to mono by averaging the channels of each frame.
package wavio
