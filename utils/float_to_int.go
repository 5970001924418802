// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 converts a normalized sample to signed 16-bit PCM.
// Values outside [-1, 1] are clamped.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}

// Int16ToFloat32 converts signed 16-bit PCM to a sample in [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// DecodePCM16LE converts little-endian 16-bit PCM bytes into dst.
// It returns the number of samples written, bounded by len(dst) and len(src)/2.
func DecodePCM16LE(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := range n {
		dst[i] = Int16ToFloat32(int16(binary.LittleEndian.Uint16(src[2*i:])))
	}

	return n
}

// EncodeFloat32LE writes src as little-endian IEEE-754 floats into dst,
// which must hold at least 4*len(src) bytes. Returns bytes written.
func EncodeFloat32LE(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/4)
	for i := range n {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(src[i]))
	}

	return n * 4
}
