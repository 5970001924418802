// SPDX-License-Identifier: EPL-2.0

package music

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats"
	"github.com/ik5/audstream/stream"
	"github.com/ik5/audstream/utils"
)

// TimeSpan is a range of the file, used for loop points.
type TimeSpan struct {
	Offset time.Duration
	Length time.Duration
}

// Options configure Music.
type Options struct {
	stream.Options
	// Registry resolves decoders. Nil uses formats.DefaultRegistry.
	Registry *audio.Registry
}

// Music streams a decoded audio file. The whole file is never held in
// memory; the stream pulls one buffer at a time from the decoder.
type Music struct {
	*stream.Stream

	registry *audio.Registry
	logger   golog.Logger

	mu         sync.Mutex
	file       audio.SeekableSource
	closer     io.Closer
	format     string
	channels   int
	sampleRate int
	total      int64 // frames, negative when unknown
	loopStart  int64
	loopLength int64
	cursor     int64
	buf        []float32
}

// New returns a Music with nothing open.
func New(opts Options) *Music {
	if opts.Logger == nil {
		opts.Logger = golog.NewLogger("audstream")
	}
	if opts.Registry == nil {
		opts.Registry = formats.DefaultRegistry()
	}

	m := &Music{
		registry: opts.Registry,
		logger:   opts.Logger.Named("music"),
	}
	m.Stream = stream.New(m, opts.Options)

	return m
}

// OpenFile opens path, picking the decoder from the extension first and
// probing the others if it does not match.
func (m *Music) OpenFile(path string) error {
	m.release()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	hint, _, _ := m.registry.ForPath(path)

	return m.open(f, hint, f, path)
}

// OpenMemory decodes from data, which must stay unmodified while open.
func (m *Music) OpenMemory(data []byte) error {
	m.release()
	return m.open(bytes.NewReader(data), "", nil, "memory")
}

// OpenReader decodes from rs. Music does not close rs.
func (m *Music) OpenReader(rs io.ReadSeeker) error {
	m.release()
	return m.open(rs, "", nil, "reader")
}

// release stops playback and drops the current file. The stream is left
// uninitialized until the next successful open.
func (m *Music) release() {
	m.Stream.Reset()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.closeFileLocked(); err != nil {
		m.logger.Debugw("closing previous music failed", "error", err)
	}
}

func (m *Music) open(rs io.ReadSeeker, hint string, closer io.Closer, name string) error {
	fail := func(err error) error {
		if closer != nil {
			err = multierr.Append(err, closer.Close())
		}
		return err
	}

	format, src, err := m.registry.Detect(rs, hint)
	if err != nil {
		return fail(fmt.Errorf("%w: %s: %w", ErrOpenFailed, name, err))
	}

	file, ok := src.(audio.SeekableSource)
	if !ok {
		return fail(multierr.Append(
			fmt.Errorf("%w: %s: %s decoder cannot seek", ErrOpenFailed, name, format), src.Close()))
	}
	if src.Channels() <= 0 || src.SampleRate() <= 0 {
		return fail(multierr.Append(
			fmt.Errorf("%w: %s: %d channels at %d Hz", ErrOpenFailed, name, src.Channels(), src.SampleRate()), src.Close()))
	}

	m.mu.Lock()
	m.file = file
	m.closer = closer
	m.format = format
	m.channels = src.Channels()
	m.sampleRate = src.SampleRate()
	m.total = file.TotalFrames()
	m.loopStart = 0
	m.loopLength = max(m.total, 0)
	m.cursor = 0
	m.mu.Unlock()

	m.Stream.Initialize(src.Channels(), src.SampleRate(), nil)
	m.logger.Debugw("music opened",
		"name", name,
		"format", format,
		"channels", src.Channels(),
		"sample_rate", src.SampleRate(),
		"duration", m.Duration(),
	)

	return nil
}

func (m *Music) closeFileLocked() error {
	var err error
	if m.file != nil {
		err = multierr.Append(err, m.file.Close())
	}
	if m.closer != nil {
		err = multierr.Append(err, m.closer.Close())
	}

	m.file = nil
	m.closer = nil
	m.format = ""
	m.channels = 0
	m.sampleRate = 0
	m.total = 0
	m.loopStart = 0
	m.loopLength = 0
	m.cursor = 0

	return err
}

// Play does nothing until a file is open.
func (m *Music) Play() {
	m.mu.Lock()
	open := m.file != nil
	m.mu.Unlock()

	if !open {
		m.logger.Debug("play ignored; no music open")
		return
	}
	m.Stream.Play()
}

// Duration is the length of the open file, 0 when nothing is open or the
// length is unknown.
func (m *Music) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return utils.FramesToDuration(m.total, m.sampleRate)
}

// Format returns the registry key of the open file's decoder.
func (m *Music) Format() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.format
}

// LoopPoints returns the looped span. It covers the whole file by default.
func (m *Music) LoopPoints() TimeSpan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return TimeSpan{
		Offset: utils.FramesToDuration(m.loopStart, m.sampleRate),
		Length: utils.FramesToDuration(m.loopLength, m.sampleRate),
	}
}

// SetLoopPoints restricts looping to span. A length running past the end is
// cut at the end. Playback continues from where it was.
func (m *Music) SetLoopPoints(span TimeSpan) error {
	m.mu.Lock()
	if m.file == nil {
		m.mu.Unlock()
		return ErrNotOpen
	}

	offset := utils.DurationToFrames(span.Offset, m.sampleRate)
	length := utils.DurationToFrames(span.Length, m.sampleRate)
	switch {
	case m.total >= 0 && offset >= m.total:
		m.mu.Unlock()
		return fmt.Errorf("%w: offset %v is past the end", ErrInvalidLoopPoints, span.Offset)
	case length == 0:
		m.mu.Unlock()
		return fmt.Errorf("%w: empty span", ErrInvalidLoopPoints)
	}
	if m.total >= 0 {
		length = min(length, m.total-offset)
	}
	if offset == m.loopStart && length == m.loopLength {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	// The seek flushes audio queued under the old span; status is untouched.
	position := m.PlayingOffset()

	m.mu.Lock()
	m.loopStart = offset
	m.loopLength = length
	m.mu.Unlock()

	m.SetPlayingOffset(position)

	return nil
}

// Close stops playback, waits for the stream worker and then closes the
// decoder.
func (m *Music) Close() error {
	err := m.Stream.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	return multierr.Append(err, m.closeFileLocked())
}

func (m *Music) loopEndLocked() int64 {
	if m.total < 0 && m.loopStart == 0 && m.loopLength == 0 {
		return -1
	}
	return m.loopStart + m.loopLength
}

// Produce implements stream.Source.
func (m *Music) Produce(maxFrames int, loop bool) (stream.Chunk, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return stream.Chunk{}, false
	}

	loopEnd := m.loopEndLocked()
	if loop {
		switch {
		case loopEnd >= 0 && m.cursor == loopEnd:
			m.seekLocked(m.loopStart)
		case m.total >= 0 && m.cursor >= m.total:
			m.seekLocked(0)
		}
	}

	frames := int64(maxFrames)
	if loop && loopEnd >= 0 && m.cursor < loopEnd {
		frames = min(frames, loopEnd-m.cursor)
	}

	offset := m.cursor
	n := m.readLocked(int(frames))
	if n == 0 && loop && m.cursor > m.loopStart {
		// decoder ended before the length it reported
		whole := m.loopStart == 0 && m.loopLength == 0
		m.total = m.cursor
		if whole {
			// length was unknown until now
			m.loopLength = m.total
		} else {
			m.loopLength = min(m.loopLength, max(m.total-m.loopStart, 0))
		}
		m.seekLocked(m.loopStart)
		offset = m.cursor
		n = m.readLocked(int(min(int64(maxFrames), max(m.loopEndLocked()-m.cursor, 0))))
	}
	if n == 0 {
		return stream.Chunk{}, false
	}
	m.cursor += int64(n)

	return stream.Chunk{Samples: m.buf[:n*m.channels], Offset: offset}, true
}

// Seek implements stream.Source. Targets are clamped to the file.
func (m *Music) Seek(frame int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return 0
	}
	m.seekLocked(frame)

	return m.cursor
}

func (m *Music) seekLocked(frame int64) {
	frame = max(frame, 0)
	if m.total >= 0 {
		frame = min(frame, m.total)
	}

	actual, err := m.file.SeekFrame(frame)
	if err != nil {
		m.logger.Warnw("seek failed; keeping position", "frame", frame, "error", err)
		return
	}
	m.cursor = actual
}

// readLocked reads up to frames frames into m.buf and returns how many it
// got.
func (m *Music) readLocked(frames int) int {
	want := frames * m.channels
	if cap(m.buf) < want {
		m.buf = make([]float32, want)
	}
	m.buf = m.buf[:cap(m.buf)]

	got := 0
	for got < want {
		n, err := m.file.ReadSamples(m.buf[got:want])
		got += n
		if err != nil {
			if err != io.EOF {
				m.logger.Warnw("decoding failed", "error", err)
			}
			break
		}
		if n == 0 {
			break
		}
	}

	return got / m.channels
}
