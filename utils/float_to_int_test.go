// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0.0, want: 0},
		{name: "max positive", input: 1.0, want: math.MaxInt16},
		{name: "max negative", input: -1.0, want: -math.MaxInt16},
		{name: "half positive", input: 0.5, want: 16383},
		{name: "half negative", input: -0.5, want: -16383},
		{name: "clamp over max", input: 1.5, want: math.MaxInt16},
		{name: "clamp under min", input: -100.0, want: -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Float32ToInt16(tt.input)
			if got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int16
		want float32
	}{
		{0, 0},
		{math.MinInt16, -1},
		{16384, 0.5},
		{-16384, -0.5},
	}

	for _, tt := range tests {
		if got := Int16ToFloat32(tt.in); got != tt.want {
			t.Errorf("Int16ToFloat32(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodePCM16LE(t *testing.T) {
	t.Parallel()

	src := make([]byte, 8)
	binary.LittleEndian.PutUint16(src[0:], uint16(16384))
	binary.LittleEndian.PutUint16(src[2:], 0)
	v := int16(-16384)
	binary.LittleEndian.PutUint16(src[4:], uint16(v))

	t.Run("dst larger than src", func(t *testing.T) {
		t.Parallel()

		dst := make([]float32, 10)
		n := DecodePCM16LE(dst, src[:6])
		if n != 3 {
			t.Fatalf("n = %d, want 3", n)
		}
		if dst[0] != 0.5 || dst[1] != 0 || dst[2] != -0.5 {
			t.Errorf("dst = %v, want [0.5 0 -0.5]", dst[:3])
		}
	})

	t.Run("dst smaller than src", func(t *testing.T) {
		t.Parallel()

		dst := make([]float32, 2)
		if n := DecodePCM16LE(dst, src); n != 2 {
			t.Errorf("n = %d, want 2", n)
		}
	})

	t.Run("odd trailing byte ignored", func(t *testing.T) {
		t.Parallel()

		dst := make([]float32, 4)
		if n := DecodePCM16LE(dst, src[:5]); n != 2 {
			t.Errorf("n = %d, want 2", n)
		}
	})
}

func TestEncodeFloat32LE(t *testing.T) {
	t.Parallel()

	src := []float32{0.25, -1, 0}
	dst := make([]byte, 12)

	if n := EncodeFloat32LE(dst, src); n != 12 {
		t.Fatalf("EncodeFloat32LE() = %d, want 12", n)
	}

	for i, want := range src {
		got := math.Float32frombits(binary.LittleEndian.Uint32(dst[4*i:]))
		if got != want {
			t.Errorf("sample %d = %v, want %v", i, got, want)
		}
	}

	short := make([]byte, 5)
	if n := EncodeFloat32LE(short, src); n != 4 {
		t.Errorf("short dst wrote %d bytes, want 4", n)
	}
}

// TestFloat32ToInt16Monotonic tests that the conversion never decreases
func TestFloat32ToInt16Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1.0)

	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := Float32ToInt16(float32(f))
		if curr < prev {
			t.Errorf("Float32ToInt16 not monotonic: f=%v gives %v, previous %v", f, curr, prev)
		}
		prev = curr
	}
}

func BenchmarkDecodePCM16LE(b *testing.B) {
	src := make([]byte, 8192)
	dst := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		DecodePCM16LE(dst, src)
	}
}

// TestDecodePCM16LE_ZeroAllocs verifies no heap allocations
func TestDecodePCM16LE_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := make([]byte, 512)
	dst := make([]float32, 256)

	allocs := testing.AllocsPerRun(100, func() {
		DecodePCM16LE(dst, src)
	})

	if allocs > 0 {
		t.Errorf("DecodePCM16LE allocated %v times, want 0", allocs)
	}
}
