// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
	"sync"
)

// Waveform yields the sample value for a frame index and channel.
type Waveform func(frame int, channel int) float32

// MockSource is a test helper that generates audio data for testing.
// It satisfies audio.SeekableSource without importing it.
type MockSource struct {
	mu          sync.Mutex
	sampleRate  int
	channels    int
	totalFrames int // frames per channel; negative means endless
	pos         int
	waveform    Waveform
	maxRead     int // frames per ReadSamples call, 0 = unlimited
	reads       int
	closed      bool
}

// NewMockSource creates a new mock audio source with totalFrames frames.
func NewMockSource(sampleRate, channels, totalFrames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return 0 })
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

// NewRampSource encodes the frame index in every sample as frame/scale, so
// tests can recover positions from output values.
func NewRampSource(sampleRate, channels, totalFrames int, scale float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame int, _ int) float32 {
		return float32(frame) / scale
	})
}

// LimitReads caps the frames returned by each ReadSamples call.
func (m *MockSource) LimitReads(frames int) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maxRead = frames
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// Reads returns how many times ReadSamples was called.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reads
}

// Position returns the next frame to be generated.
func (m *MockSource) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pos
}

// Reset rewinds the source to frame 0.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pos = 0
}

func (m *MockSource) TotalFrames() int64 {
	if m.totalFrames < 0 {
		return -1
	}
	return int64(m.totalFrames)
}

func (m *MockSource) SeekFrame(frame int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame < 0 {
		frame = 0
	}
	if m.totalFrames >= 0 && frame > int64(m.totalFrames) {
		frame = int64(m.totalFrames)
	}
	m.pos = int(frame)

	return frame, nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.totalFrames >= 0 && m.pos >= m.totalFrames {
		return 0, io.EOF
	}

	frames := len(dst) / m.channels
	if m.maxRead > 0 {
		frames = min(frames, m.maxRead)
	}
	if m.totalFrames >= 0 {
		frames = min(frames, m.totalFrames-m.pos)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.pos+f, ch)
		}
	}
	m.pos += frames

	if m.totalFrames >= 0 && m.pos >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// StutterSource wraps a source and reports (0, nil) on every other read,
// like a live queue that is momentarily empty.
type StutterSource struct {
	*MockSource
	starve bool
}

func NewStutterSource(src *MockSource) *StutterSource {
	return &StutterSource{MockSource: src}
}

func (s *StutterSource) ReadSamples(dst []float32) (int, error) {
	s.starve = !s.starve
	if s.starve {
		return 0, nil
	}
	return s.MockSource.ReadSamples(dst)
}
