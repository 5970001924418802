// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audstream/audio"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source holds the whole file decoded to floats; go-audio/aiff offers no
// frame-accurate seek, so positioning is an index move.
type source struct {
	sampleRate int
	channels   int
	samples    []float32
	pos        int // in samples
}

// load drains dec into memory, normalizing by bitDepth.
func load(dec aiffReader, bitDepth int) (*source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	scale := float32(int64(1) << (bitDepth - 1))
	s := &source{
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
	}

	intBuf := &goaudio.IntBuffer{
		Data:   make([]int, 4096-4096%format.NumChannels),
		Format: format,
	}

	for {
		n, err := dec.PCMBuffer(intBuf)
		for _, v := range intBuf.Data[:n] {
			s.samples = append(s.samples, float32(v)/scale)
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding aiff pcm: %w", err)
		}
	}

	// drop a trailing partial frame
	s.samples = s.samples[:len(s.samples)-len(s.samples)%s.channels]

	return s, nil
}

func (s *source) SampleRate() int    { return s.sampleRate }
func (s *source) Channels() int      { return s.channels }
func (s *source) Close() error       { return nil }
func (s *source) BufSize() int       { return 4096 }
func (s *source) TotalFrames() int64 { return int64(len(s.samples) / s.channels) }

func (s *source) SeekFrame(frame int64) (int64, error) {
	frame = min(max(frame, 0), s.TotalFrames())
	s.pos = int(frame) * s.channels

	return frame, nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}

	want := (len(dst) / s.channels) * s.channels
	n := copy(dst[:want], s.samples[s.pos:])
	s.pos += n

	if s.pos >= len(s.samples) {
		return n, io.EOF
	}
	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	if dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	return load(dec, int(dec.BitDepth))
}
