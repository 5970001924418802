// SPDX-License-Identifier: EPL-2.0

// Package devicetest provides a device backend whose voices only consume
// audio when a test advances them.
package devicetest

import (
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ik5/audstream/device"
)

// Backend is a manually clocked device.Backend.
type Backend struct {
	mu         sync.Mutex
	voices     []*Voice
	listener   device.Listener
	failSubmit bool
	opened     int
	closed     int
}

func NewBackend() *Backend {
	return &Backend{listener: device.DefaultListener()}
}

// Opener returns a device.Opener that hands out b.
func (b *Backend) Opener() device.Opener {
	return func(golog.Logger) (device.Backend, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.opened++
		return b, nil
	}
}

// FailingOpener never opens.
func FailingOpener(golog.Logger) (device.Backend, error) {
	return nil, errors.New("devicetest: no device")
}

func (b *Backend) Name() string { return "devicetest" }

func (b *Backend) NewVoice(f device.Format) (device.Voice, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	v := &Voice{BufferQueue: device.NewBufferQueue(f), backend: b}
	b.voices = append(b.voices, v)

	return v, nil
}

func (b *Backend) SetListener(l device.Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listener = l
}

func (b *Backend) Listener() device.Listener {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listener
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

// Opened and Closed count Opener calls and Close calls.
func (b *Backend) Opened() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened
}

func (b *Backend) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// SetFailSubmit makes every later Submit return device.ErrBufferRejected.
func (b *Backend) SetFailSubmit(fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failSubmit = fail
}

// Voices returns the voices created so far, closed ones included.
func (b *Backend) Voices() []*Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Voice(nil), b.voices...)
}

// Voice returns the most recently created voice or nil.
func (b *Backend) Voice() *Voice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.voices) == 0 {
		return nil
	}
	return b.voices[len(b.voices)-1]
}

// Advance plays frames on every open voice and records what was heard.
func (b *Backend) Advance(frames int) {
	for _, v := range b.Voices() {
		v.advance(frames)
	}
}

// Voice is a device.Voice that records consumed samples.
type Voice struct {
	*device.BufferQueue
	backend *Backend

	mu       sync.Mutex
	captured []float32
	closed   bool
	submits  int
}

func (v *Voice) Submit(samples []float32) error {
	v.backend.mu.Lock()
	fail := v.backend.failSubmit
	v.backend.mu.Unlock()
	if fail {
		return device.ErrBufferRejected
	}

	if err := v.BufferQueue.Submit(samples); err != nil {
		return err
	}

	v.mu.Lock()
	v.submits++
	v.mu.Unlock()

	return nil
}

func (v *Voice) Close() error {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	return v.BufferQueue.Close()
}

func (v *Voice) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

// Submits counts accepted buffers.
func (v *Voice) Submits() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.submits
}

// Captured returns every sample consumed so far.
func (v *Voice) Captured() []float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]float32(nil), v.captured...)
}

func (v *Voice) advance(frames int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	buf := make([]float32, frames*v.Format().Channels)
	n := v.Consume(buf)
	v.captured = append(v.captured, buf[:n]...)
}
