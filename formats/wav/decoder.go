// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

const bytesPerSample = 2

// source reads raw PCM16 frames straight from the data chunk located by
// the go-audio parser, so seeking is a single byte-offset Seek.
type source struct {
	rs          io.ReadSeeker
	sampleRate  int
	channels    int
	dataStart   int64
	totalFrames int64
	pos         int64
	buf         []byte
}

func (s *source) SampleRate() int    { return s.sampleRate }
func (s *source) Channels() int      { return s.channels }
func (s *source) Close() error       { return nil }
func (s *source) BufSize() int       { return cap(s.buf) / bytesPerSample }
func (s *source) TotalFrames() int64 { return s.totalFrames }

func (s *source) frameSize() int64 { return int64(s.channels * bytesPerSample) }

func (s *source) SeekFrame(frame int64) (int64, error) {
	frame = utils.Clamp(frame, 0, s.totalFrames)

	if _, err := s.rs.Seek(s.dataStart+frame*s.frameSize(), io.SeekStart); err != nil {
		return s.pos, fmt.Errorf("seeking wav data: %w", err)
	}
	s.pos = frame

	return frame, nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	remaining := s.totalFrames - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(int64(len(dst)/s.channels), remaining)
	if frames == 0 {
		return 0, nil
	}

	need := int(frames * s.frameSize())
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.rs, s.buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w", err)
	}

	got := int64(n) / s.frameSize()
	if err != nil {
		// data chunk shorter than its header claims
		s.totalFrames = s.pos + got
	}

	samples := utils.DecodePCM16LE(dst, s.buf[:got*s.frameSize()])
	s.pos += got

	if s.pos >= s.totalFrames {
		return samples, io.EOF
	}
	return samples, nil
}

type Decoder struct{}

// Decode parses the RIFF/WAVE container with go-audio/wav and positions the
// returned source at the first PCM frame. Input that is not an io.ReadSeeker
// is buffered into memory.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != 1 || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}

	channels := int(dec.NumChans)
	if channels < 1 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	dataStart, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locating wav data: %w", err)
	}

	return &source{
		rs:          rs,
		sampleRate:  int(dec.SampleRate),
		channels:    channels,
		dataStart:   dataStart,
		totalFrames: dec.PCMLen() / int64(channels*bytesPerSample),
		buf:         make([]byte, 4096),
	}, nil
}
