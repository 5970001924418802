// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/utils"
)

// mark records which source frames a submitted buffer carries.
type mark struct {
	offset int64
	frames int64
}

// Stream plays audio pulled from a Source on a device voice. A worker
// goroutine keeps a small ring of buffers queued on the voice and is the only
// caller of the Source.
//
// Close must not be called from inside Source methods.
type Stream struct {
	SoundSource

	src    Source
	opts   Options
	logger golog.Logger

	mu          sync.Mutex
	status      Status
	format      device.Format
	channelMap  []Channel
	initialized bool
	looping     bool
	closed      bool

	seekPending bool
	seekFrame   int64

	backend  device.Backend
	acquired bool
	voice    device.Voice
	pool     *bufferPool
	marks    []mark
	retired  int64 // frames of marks already dropped
	lastEnd  int64
	ended    bool

	cancel     context.CancelFunc
	done       chan struct{}
	wake       chan struct{}
	workers    sync.WaitGroup
	cbMu       sync.Mutex
	caller     atomic.Uint64 // goroutine inside a Source call, 0 when idle
}

// New returns a stopped, uninitialized stream reading from src.
func New(src Source, opts Options) *Stream {
	opts = opts.withDefaults()
	s := &Stream{
		src:  src,
		opts: opts,
		logger: opts.Logger.Named("stream").With(
			"stream_id", uuid.NewString(),
		),
		wake: make(chan struct{}, 1),
	}
	s.SoundSource.init(s.applyParams)

	return s
}

// Initialize sets the format of the samples Source produces. A nil
// channelMap selects DefaultChannelMap. It stops the stream first and
// panics with ErrInvalidFormat on a bad format.
func (s *Stream) Initialize(channels, sampleRate int, channelMap []Channel) {
	if channels <= 0 || sampleRate <= 0 {
		panic(errors.Wrapf(ErrInvalidFormat, "channels=%d sample_rate=%d", channels, sampleRate))
	}
	if channelMap == nil {
		channelMap = DefaultChannelMap(channels)
	}
	if len(channelMap) != channels {
		panic(errors.Wrapf(ErrInvalidFormat, "channel map has %d entries for %d channels", len(channelMap), channels))
	}

	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.format = device.Format{Channels: channels, SampleRate: sampleRate}
	s.channelMap = append([]Channel(nil), channelMap...)
	s.initialized = true
	s.seekPending = false
	s.pool = nil
	s.resetMarksLocked(0)
}

// Reset stops the stream and forgets its format. Play panics until the next
// Initialize.
func (s *Stream) Reset() {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.format = device.Format{}
	s.channelMap = nil
	s.initialized = false
	s.seekPending = false
	s.pool = nil
	s.resetMarksLocked(0)
}

func (s *Stream) ChannelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format.Channels
}

func (s *Stream) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.format.SampleRate
}

func (s *Stream) ChannelMap() []Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Channel(nil), s.channelMap...)
}

func (s *Stream) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Stream) SetLooping(loop bool) {
	s.mu.Lock()
	s.looping = loop
	s.mu.Unlock()
	s.notify()
}

func (s *Stream) Looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.looping
}

// Play starts or resumes playback. It is a no-op while playing and panics
// with ErrNotInitialized before Initialize.
func (s *Stream) Play() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("play called on a closed stream")
		return
	}
	if !s.initialized {
		s.mu.Unlock()
		panic(ErrNotInitialized)
	}

	old := s.status
	switch old {
	case Playing:
		s.mu.Unlock()
		return
	case Paused:
		s.status = Playing
		s.setVoiceStateLocked(device.Playing)
		s.mu.Unlock()
		s.notify()
		s.statusChanged(old, Playing)
		return
	}

	s.prepareVoiceLocked()
	if s.pool == nil {
		s.pool = newBufferPool(s.opts.BufferCount, s.format.Frames(s.opts.BufferDuration), s.format.Channels)
	}
	s.pool.reset()
	s.ended = false
	if !s.seekPending {
		s.seekPending = true
		s.seekFrame = 0
	}
	s.resetMarksLocked(s.seekFrame)

	s.status = Playing
	s.setVoiceStateLocked(device.Playing)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.workers.Add(1)
	goutils.PanicCapturingGoWithCallback(func() {
		s.work(ctx, done)
	}, func(err interface{}) {
		s.logger.Errorw("stream worker panicked", "error", err)
		s.halt(ctx)
	})
	s.mu.Unlock()

	s.statusChanged(old, Playing)
}

// Pause suspends playback and keeps queued audio for Play to resume.
func (s *Stream) Pause() {
	s.mu.Lock()
	old := s.status
	if old != Playing {
		s.mu.Unlock()
		return
	}
	s.status = Paused
	s.setVoiceStateLocked(device.Paused)
	s.mu.Unlock()

	s.notify()
	s.statusChanged(old, Paused)
}

// Stop halts playback, drops queued audio and rewinds to the start. It waits
// for the worker to exit, including any Source call in flight. Called from
// inside a Source call it returns at once and the worker exits when that
// call returns.
func (s *Stream) Stop() {
	s.mu.Lock()
	old := s.stopLocked()
	done := s.done
	s.mu.Unlock()

	if old == Stopped {
		return
	}
	if done != nil && !s.inSourceCall() {
		<-done
	}
	s.statusChanged(old, Stopped)
}

// SetPlayingOffset requests a seek. While stopped the position is kept for
// the next Play.
func (s *Stream) SetPlayingOffset(offset time.Duration) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}
	s.seekFrame = utils.DurationToFrames(offset, s.format.SampleRate)
	s.seekPending = true
	s.mu.Unlock()

	s.notify()
}

// PlayingOffset returns the position of the sample being heard.
func (s *Stream) PlayingOffset() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0
	}
	return utils.FramesToDuration(s.offsetLocked(), s.format.SampleRate)
}

// Close stops the stream, waits for its worker and releases the device.
// A closed stream ignores Play.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.Stop()
	s.workers.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.voice != nil {
		err = multierr.Append(err, s.voice.Close())
		s.voice = nil
	}
	if s.acquired {
		err = multierr.Append(err, s.opts.Device.Release())
		s.acquired = false
		s.backend = nil
	}

	return err
}

// prepareVoiceLocked makes sure an empty voice in the current format exists.
// Without a device it falls back to a silent voice.
func (s *Stream) prepareVoiceLocked() {
	fresh := false
	if !s.acquired {
		b, err := s.opts.Device.Acquire()
		if err != nil {
			s.logger.Warnw("audio device unavailable; playing silently", "error", err)
		} else {
			s.backend = b
			s.acquired = true
			fresh = true
		}
	}

	if s.voice != nil && !fresh && s.voice.Format() == s.format {
		s.voice.Flush()
		s.voice.SetParams(s.SoundSource.Params())
		return
	}

	if s.voice != nil {
		if err := s.voice.Close(); err != nil {
			s.logger.Debugw("closing previous voice failed", "error", err)
		}
		s.voice = nil
	}

	if s.backend != nil {
		v, err := s.backend.NewVoice(s.format)
		if err == nil {
			s.voice = v
		} else {
			s.logger.Warnw("creating voice failed; playing silently", "error", err)
		}
	}
	if s.voice == nil {
		s.voice = device.NewSilentVoice(s.format)
	}
	s.voice.SetParams(s.SoundSource.Params())
}

func (s *Stream) setVoiceStateLocked(state device.State) {
	if s.voice == nil {
		return
	}
	if err := s.voice.SetState(state); err != nil {
		s.logger.Debugw("setting voice state failed", "state", state, "error", err)
	}
}

// stopLocked moves to Stopped and returns the previous status.
func (s *Stream) stopLocked() Status {
	old := s.status
	if old == Stopped {
		return old
	}

	s.status = Stopped
	if s.cancel != nil {
		s.cancel()
	}
	if s.voice != nil {
		s.voice.Flush()
		s.setVoiceStateLocked(device.Stopped)
	}
	if s.pool != nil {
		s.pool.reset()
	}
	s.seekPending = false
	s.ended = false
	s.resetMarksLocked(0)

	return old
}

// halt stops the stream from its own worker after a failure.
func (s *Stream) halt(ctx context.Context) {
	s.mu.Lock()
	if ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	old := s.stopLocked()
	s.mu.Unlock()

	s.statusChanged(old, Stopped)
}

func (s *Stream) applyParams() {
	p := s.SoundSource.Params()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voice != nil {
		s.voice.SetParams(p)
	}
}

func (s *Stream) statusChanged(old, new Status) {
	if old == new {
		return
	}
	s.logger.Debugw("status changed", "from", old, "to", new)
	if s.opts.OnStatus != nil {
		s.opts.OnStatus(old, new)
	}
}

func (s *Stream) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Stream) resetMarksLocked(offset int64) {
	s.marks = s.marks[:0]
	s.retired = 0
	s.lastEnd = offset
}

// trimMarksLocked drops marks the voice has fully played.
func (s *Stream) trimMarksLocked(played int64) {
	for len(s.marks) > 0 && played-s.retired >= s.marks[0].frames {
		m := s.marks[0]
		s.retired += m.frames
		s.lastEnd = m.offset + m.frames
		s.marks = s.marks[1:]
	}
}

func (s *Stream) offsetLocked() int64 {
	if s.seekPending {
		return s.seekFrame
	}
	if s.status == Stopped || s.voice == nil {
		return 0
	}

	played := s.voice.PlayedFrames()
	s.trimMarksLocked(played)
	if len(s.marks) == 0 {
		return s.lastEnd
	}

	return s.marks[0].offset + played - s.retired
}
