// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audstream/audio"
)

func fixture(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := WriteWAV16(&buf, sampleRate, channels, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	return buf.Bytes()
}

// ramp returns frames*channels samples where every sample holds its frame index.
func ramp(frames, channels int) []int16 {
	out := make([]int16, 0, frames*channels)
	for f := range frames {
		for range channels {
			out = append(out, int16(f))
		}
	}
	return out
}

func decode(t *testing.T, r io.Reader) audio.SeekableSource {
	t.Helper()

	src, err := Decoder{}.Decode(r)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	seekable, ok := src.(audio.SeekableSource)
	if !ok {
		t.Fatal("wav source is not seekable")
	}
	return seekable
}

func TestDecoder_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
		frames     int
	}{
		{name: "mono 8k", sampleRate: 8000, channels: 1, frames: 100},
		{name: "stereo 44.1k", sampleRate: 44100, channels: 2, frames: 441},
		{name: "quad 48k", sampleRate: 48000, channels: 4, frames: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := decode(t, bytes.NewReader(fixture(t, tt.sampleRate, tt.channels, ramp(tt.frames, tt.channels))))

			if src.SampleRate() != tt.sampleRate {
				t.Errorf("SampleRate() = %d, want %d", src.SampleRate(), tt.sampleRate)
			}
			if src.Channels() != tt.channels {
				t.Errorf("Channels() = %d, want %d", src.Channels(), tt.channels)
			}
			if src.TotalFrames() != int64(tt.frames) {
				t.Errorf("TotalFrames() = %d, want %d", src.TotalFrames(), tt.frames)
			}
		})
	}
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 32767, -32768, 100}
	src := decode(t, bytes.NewReader(fixture(t, 8000, 2, samples)))

	buf := make([]float32, 64)
	n, err := src.ReadSamples(buf)
	if n != len(samples) {
		t.Fatalf("ReadSamples() = %d, want %d", n, len(samples))
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("final read error = %v, want io.EOF", err)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1, 100.0 / 32768.0}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("read after end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_ReadSamples_SmallReads(t *testing.T) {
	t.Parallel()

	src := decode(t, bytes.NewReader(fixture(t, 8000, 2, ramp(10, 2))))

	buf := make([]float32, 6) // three frames
	total := 0
	for {
		n, err := src.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if n != 6 {
			t.Fatalf("mid-stream read = %d, want 6", n)
		}
	}

	if total != 20 {
		t.Errorf("read %d samples, want 20", total)
	}
}

func TestSource_SeekFrame(t *testing.T) {
	t.Parallel()

	src := decode(t, bytes.NewReader(fixture(t, 8000, 2, ramp(100, 2))))

	tests := []struct {
		target int64
		want   int64
	}{
		{target: 50, want: 50},
		{target: 0, want: 0},
		{target: -5, want: 0},
		{target: 99, want: 99},
		{target: 1000, want: 100},
	}

	buf := make([]float32, 2)
	for _, tt := range tests {
		got, err := src.SeekFrame(tt.target)
		if err != nil {
			t.Fatalf("SeekFrame(%d) error = %v", tt.target, err)
		}
		if got != tt.want {
			t.Errorf("SeekFrame(%d) = %d, want %d", tt.target, got, tt.want)
		}

		n, _ := src.ReadSamples(buf)
		if tt.want == 100 {
			if n != 0 {
				t.Errorf("read at end returned %d samples", n)
			}
			continue
		}
		if n != 2 || buf[0] != float32(tt.want)/32768.0 {
			t.Errorf("after SeekFrame(%d) read %v, want frame %d", tt.target, buf[:n], tt.want)
		}
	}
}

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	data := fixture(t, 8000, 1, ramp(20, 1))
	src := decode(t, bytes.NewBuffer(data))

	if _, err := src.SeekFrame(10); err != nil {
		t.Fatalf("SeekFrame() on buffered input error = %v", err)
	}
	buf := make([]float32, 1)
	if _, err := src.ReadSamples(buf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 10.0/32768.0 {
		t.Errorf("sample = %v, want frame 10", buf[0])
	}
}

func TestDecoder_TruncatedData(t *testing.T) {
	t.Parallel()

	data := fixture(t, 8000, 1, ramp(20, 1))
	data = data[:len(data)-10] // drop five frames

	src := decode(t, bytes.NewReader(data))

	buf := make([]float32, 64)
	n, err := src.ReadSamples(buf)
	if n != 15 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v; want 15, EOF", n, err)
	}
	if src.TotalFrames() != 15 {
		t.Errorf("TotalFrames() after short read = %d, want 15", src.TotalFrames())
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	eightBit := fixture(t, 8000, 1, ramp(4, 1))
	binary.LittleEndian.PutUint16(eightBit[34:36], 8)

	float := fixture(t, 8000, 1, ramp(4, 1))
	binary.LittleEndian.PutUint16(float[20:22], 3)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "not riff", data: []byte("This is definitely not a WAV file at all"), want: ErrNotWavFile},
		{name: "empty", data: nil, want: ErrNotWavFile},
		{name: "8-bit", data: eightBit, want: ErrOnlyPCM16bitSupported},
		{name: "ieee float", data: float, want: ErrOnlyPCM16bitSupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	var data bytes.Buffer
	_ = WriteWAV16(&data, 44100, 2, make([]int16, 44100*2))
	raw := data.Bytes()

	buf := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		src, err := Decoder{}.Decode(bytes.NewReader(raw))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
