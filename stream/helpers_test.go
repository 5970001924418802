// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"sync"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/internal/devicetest"
)

const (
	testRate  = 8000
	rampScale = 1e6
)

func rampValue(frame int64) float32 { return float32(frame) / rampScale }

// rampSource produces sample value frame/rampScale on every channel.
type rampSource struct {
	mu       sync.Mutex
	channels int
	total    int64 // negative for endless
	pos      int64
	buf      []float32
	produces int
	seeks    []int64
	hook     func(call int)
}

func newRampSource(channels int, total int64) *rampSource {
	return &rampSource{channels: channels, total: total}
}

func (r *rampSource) Produce(maxFrames int, loop bool) (Chunk, bool) {
	r.mu.Lock()
	r.produces++
	call, hook := r.produces, r.hook

	if r.total >= 0 && r.pos >= r.total {
		if !loop {
			r.mu.Unlock()
			if hook != nil {
				hook(call)
			}
			return Chunk{}, false
		}
		r.pos = 0
	}

	n := int64(maxFrames)
	if r.total >= 0 {
		n = min(n, r.total-r.pos)
	}
	if cap(r.buf) < int(n)*r.channels {
		r.buf = make([]float32, int(n)*r.channels)
	}
	samples := r.buf[:int(n)*r.channels]
	for f := range n {
		for c := range r.channels {
			samples[int(f)*r.channels+c] = rampValue(r.pos + f)
		}
	}
	chunk := Chunk{Samples: samples, Offset: r.pos}
	r.pos += n
	r.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return chunk, true
}

func (r *rampSource) Seek(frame int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.total >= 0 {
		frame = min(frame, r.total)
	}
	r.pos = max(frame, 0)
	r.seeks = append(r.seeks, r.pos)

	return r.pos
}

func (r *rampSource) Produces() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.produces
}

func (r *rampSource) Seeks() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.seeks...)
}

type statusLog struct {
	mu          sync.Mutex
	transitions [][2]Status
}

func (l *statusLog) record(old, new Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transitions = append(l.transitions, [2]Status{old, new})
}

func (l *statusLog) get() [][2]Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][2]Status(nil), l.transitions...)
}

type harness struct {
	t       *testing.T
	backend *devicetest.Backend
	device  *device.Context
	src     *rampSource
	stream  *Stream
	status  *statusLog
}

func newHarness(t *testing.T, src *rampSource) *harness {
	t.Helper()

	logger := golog.NewTestLogger(t)
	backend := devicetest.NewBackend()
	h := &harness{
		t:       t,
		backend: backend,
		device:  device.NewContext(backend.Opener(), logger),
		src:     src,
		status:  &statusLog{},
	}
	h.stream = New(src, Options{
		Device:   h.device,
		Logger:   logger,
		OnStatus: h.status.record,
	})
	h.stream.Initialize(src.channels, testRate, nil)
	t.Cleanup(func() {
		test.That(t, h.stream.Close(), test.ShouldBeNil)
	})

	return h
}

// settled reports whether the worker has caught up with the voice.
func (s *Stream) settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.status != Playing:
		return true
	case s.seekPending:
		return false
	case s.voice.Queued() != s.pool.queued:
		return false
	}
	return s.ended || !s.pool.hasFree()
}

func (h *harness) settle() {
	h.t.Helper()
	testutils.WaitForAssertion(h.t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, h.stream.settled(), test.ShouldBeTrue)
	})
}

// advance plays d of audio in 50ms steps, letting the worker refill between
// steps.
func (h *harness) advance(d time.Duration) {
	h.t.Helper()

	const step = 50 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		h.settle()
		h.backend.Advance(int(step * testRate / time.Second))
		h.stream.notify()
	}
	h.settle()
}

func (h *harness) offsetShouldBe(want time.Duration) {
	h.t.Helper()
	got := h.stream.PlayingOffset()
	test.That(h.t, got.Seconds(), test.ShouldAlmostEqual, want.Seconds(), DefaultBufferDuration.Seconds())
}
