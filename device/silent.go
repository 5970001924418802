// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"time"

	"github.com/edaniels/golog"
)

// SilentVoice consumes submitted buffers at real-time speed without
// producing sound. Streams fall back to it when no device can be opened, so
// offsets advance and natural ends still happen on time.
type SilentVoice struct {
	*BufferQueue

	mu    sync.Mutex
	now   func() time.Time
	last  time.Time
	carry time.Duration
}

func NewSilentVoice(f Format) *SilentVoice {
	return newSilentVoice(f, time.Now)
}

func newSilentVoice(f Format, now func() time.Time) *SilentVoice {
	return &SilentVoice{
		BufferQueue: NewBufferQueue(f),
		now:         now,
		last:        now(),
	}
}

// tick consumes the frames that would have played since the last call.
func (v *SilentVoice) tick() {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	elapsed := now.Sub(v.last) + v.carry
	v.last = now
	v.carry = 0

	if v.BufferQueue.State() != Playing || v.BufferQueue.Queued() == 0 {
		return
	}

	rate := time.Duration(v.format.SampleRate)
	frames := int(elapsed * rate / time.Second)
	v.carry = elapsed - time.Duration(frames)*time.Second/rate

	v.Skip(frames)
}

func (v *SilentVoice) Submit(samples []float32) error {
	v.tick()
	return v.BufferQueue.Submit(samples)
}

func (v *SilentVoice) Reclaim() int {
	v.tick()
	return v.BufferQueue.Reclaim()
}

func (v *SilentVoice) Queued() int {
	v.tick()
	return v.BufferQueue.Queued()
}

func (v *SilentVoice) PlayedFrames() int64 {
	v.tick()
	return v.BufferQueue.PlayedFrames()
}

func (v *SilentVoice) SetState(s State) error {
	v.tick()
	return v.BufferQueue.SetState(s)
}

type nullBackend struct{}

// NullOpener opens a backend whose voices are all SilentVoice.
func NullOpener(golog.Logger) (Backend, error) {
	return nullBackend{}, nil
}

func (nullBackend) Name() string         { return "null" }
func (nullBackend) SetListener(Listener) {}
func (nullBackend) Close() error         { return nil }

func (nullBackend) NewVoice(f Format) (Voice, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return NewSilentVoice(f), nil
}
