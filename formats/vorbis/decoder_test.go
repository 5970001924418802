// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audstream/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int // in values
	seekable   bool
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Length() int64 {
	if !m.seekable {
		return 0
	}
	return int64(len(m.samples) / m.channels)
}

func (m *mockOggVorbisReader) SetPosition(pos int64) error {
	if !m.seekable {
		return errors.New("oggvorbis: reader is not seekable")
	}
	m.offset = int(pos) * m.channels
	return nil
}

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	n := copy(buf, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not Ogg Vorbis data")} {
		_, err := Decoder{}.Decode(bytes.NewReader(data))
		if !errors.Is(err, ErrNotVorbisFile) {
			t.Errorf("Decode(%q) error = %v, want ErrNotVorbisFile", data, err)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(&mockOggVorbisReader{sampleRate: 48000, channels: 2, samples: make([]float32, 200), seekable: true})

	if src.SampleRate() != 48000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz / %d ch", src.SampleRate(), src.Channels())
	}
	if src.TotalFrames() != 100 {
		t.Errorf("TotalFrames() = %d, want 100", src.TotalFrames())
	}

	live := newSource(&mockOggVorbisReader{sampleRate: 48000, channels: 2})
	if live.TotalFrames() != -1 {
		t.Errorf("TotalFrames() for unknown length = %d, want -1", live.TotalFrames())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	samples := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	src := newSource(&mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: samples})

	buf := make([]float32, 5) // truncated to two frames
	n, err := src.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v; want 4, nil", n, err)
	}

	n, _ = src.ReadSamples(buf)
	if n != 2 || buf[0] != 0.5 {
		t.Errorf("second read = %d (%v), want 2 starting at 0.5", n, buf[:n])
	}

	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("read at end = %d, %v; want 0, EOF", n, err)
	}
}

func TestSource_SeekFrame(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 20)
	for i := range samples {
		samples[i] = float32(i)
	}
	src := newSource(&mockOggVorbisReader{sampleRate: 8000, channels: 1, samples: samples, seekable: true})

	if got, err := src.SeekFrame(15); err != nil || got != 15 {
		t.Fatalf("SeekFrame(15) = %d, %v", got, err)
	}
	buf := make([]float32, 1)
	if _, err := src.ReadSamples(buf); err != nil || buf[0] != 15 {
		t.Errorf("after seek read %v, %v", buf[0], err)
	}

	if got, _ := src.SeekFrame(99); got != 20 {
		t.Errorf("SeekFrame(99) = %d, want 20", got)
	}

	live := newSource(&mockOggVorbisReader{sampleRate: 8000, channels: 1, samples: samples})
	if _, err := live.SeekFrame(3); !errors.Is(err, audio.ErrNotSeekable) {
		t.Errorf("SeekFrame on unseekable = %v, want ErrNotSeekable", err)
	}
}
