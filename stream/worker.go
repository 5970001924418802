// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"time"
)

// work runs one worker generation. Status hooks for stops the worker causes
// fire after it is accounted as finished, so a hook may call Close.
func (s *Stream) work(ctx context.Context, done chan struct{}) {
	old, stopped := func() (Status, bool) {
		defer s.workers.Done()
		defer close(done)
		return s.run(ctx)
	}()
	if stopped {
		s.statusChanged(old, Stopped)
	}
}

// run keeps the voice fed until ctx is cancelled or the source ends and the
// voice drains. It reports the previous status when it stopped the stream
// itself.
func (s *Stream) run(ctx context.Context) (Status, bool) {
	timer := time.NewTimer(s.opts.PollInterval)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return Stopped, false
		}

		if s.seekPending {
			frame := s.seekFrame
			s.seekPending = false
			s.voice.Flush()
			s.pool.reset()
			s.ended = false
			s.resetMarksLocked(frame)
			s.mu.Unlock()

			actual, ok := s.seek(ctx, frame)
			if !ok {
				return Stopped, false
			}

			s.mu.Lock()
			if ctx.Err() == nil && !s.seekPending {
				s.lastEnd = actual
			}
			s.mu.Unlock()
			continue
		}

		if s.status == Paused {
			s.mu.Unlock()
			if !s.wait(ctx, timer) {
				return Stopped, false
			}
			continue
		}

		s.pool.reclaim(s.voice.Reclaim())
		s.trimMarksLocked(s.voice.PlayedFrames())

		if s.ended {
			if s.voice.Queued() == 0 {
				old := s.stopLocked()
				s.mu.Unlock()
				return old, true
			}
			s.mu.Unlock()
			if !s.wait(ctx, timer) {
				return Stopped, false
			}
			continue
		}

		if !s.pool.hasFree() {
			s.mu.Unlock()
			if !s.wait(ctx, timer) {
				return Stopped, false
			}
			continue
		}
		frames, loop, channels := s.pool.frames, s.looping, s.format.Channels
		s.mu.Unlock()

		chunk, more, ok := s.produce(ctx, frames, loop)
		if !ok {
			return Stopped, false
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			s.mu.Unlock()
			return Stopped, false
		}
		if s.seekPending {
			// the chunk belongs to the old position
			s.mu.Unlock()
			continue
		}

		n := len(chunk.Samples) - len(chunk.Samples)%channels
		if n > 0 {
			buf := s.pool.next()
			n = copy(buf, chunk.Samples[:n])
			if err := s.voice.Submit(buf[:n]); err != nil {
				old := s.stopLocked()
				s.mu.Unlock()
				s.logger.Errorw("voice rejected buffer; stopping", "error", err)
				return old, true
			}
			s.pool.submitted()
			s.marks = append(s.marks, mark{offset: chunk.Offset, frames: int64(n / channels)})
		}
		if !more {
			s.ended = true
		}
		s.mu.Unlock()

		if n == 0 && more {
			if !s.wait(ctx, timer) {
				return Stopped, false
			}
		}
	}
}

// wait sleeps for the poll interval or until woken. It reports false once
// ctx is cancelled.
func (s *Stream) wait(ctx context.Context, timer *time.Timer) bool {
	timer.Reset(s.opts.PollInterval)

	select {
	case <-ctx.Done():
		return false
	case <-s.wake:
	case <-timer.C:
	}

	return true
}

func (s *Stream) produce(ctx context.Context, frames int, loop bool) (Chunk, bool, bool) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()

	if ctx.Err() != nil {
		return Chunk{}, false, false
	}

	s.caller.Store(goroutineID())
	defer s.caller.Store(0)

	chunk, more := s.src.Produce(frames, loop)

	return chunk, more, true
}

func (s *Stream) seek(ctx context.Context, frame int64) (int64, bool) {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()

	if ctx.Err() != nil {
		return 0, false
	}

	s.caller.Store(goroutineID())
	defer s.caller.Store(0)

	return s.src.Seek(frame), true
}

// inSourceCall reports whether the calling goroutine is inside a Source call
// made by the worker.
func (s *Stream) inSourceCall() bool {
	id := s.caller.Load()
	return id != 0 && id == goroutineID()
}
