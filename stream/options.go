// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"time"

	"github.com/edaniels/golog"

	"github.com/ik5/audstream/device"
)

const (
	DefaultBufferCount    = 3
	DefaultBufferDuration = 100 * time.Millisecond
	DefaultPollInterval   = 10 * time.Millisecond
)

// Options configure a Stream. Zero values take the defaults above.
type Options struct {
	// Device is shared by every stream that should play on the same
	// backend. A nil Device plays silently in real time.
	Device *device.Context
	Logger golog.Logger

	BufferCount    int
	BufferDuration time.Duration
	// PollInterval bounds how long the worker sleeps while it waits for a
	// buffer to free up.
	PollInterval time.Duration

	// OnStatus is called after every status change, without locks held.
	// Changes caused by Play, Pause and Stop run on the caller's goroutine;
	// a natural end runs on the worker.
	OnStatus func(old, new Status)
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = golog.NewLogger("audstream")
	}
	if o.Device == nil {
		o.Device = device.NewContext(device.NullOpener, o.Logger)
	}
	if o.BufferCount <= 0 {
		o.BufferCount = DefaultBufferCount
	}
	if o.BufferDuration <= 0 {
		o.BufferDuration = DefaultBufferDuration
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	return o
}
