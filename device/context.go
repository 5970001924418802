// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Context owns one backend on behalf of every stream that plays through it.
// The backend is opened by the first Acquire and closed when the last
// holder calls Release. A later Acquire opens it again.
type Context struct {
	mu       sync.Mutex
	open     Opener
	logger   golog.Logger
	ref      utils.RefCountedValue
	backend  Backend
	listener Listener
}

func NewContext(open Opener, logger golog.Logger) *Context {
	if open == nil {
		open = NullOpener
	}
	return &Context{
		open:     open,
		logger:   logger,
		listener: DefaultListener(),
	}
}

// Acquire references the backend, opening it if no one holds it yet.
// The error wraps ErrDeviceUnavailable when opening fails; no reference is
// taken in that case.
func (c *Context) Acquire() (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ref == nil {
		b, err := c.open(c.logger)
		if err != nil {
			return nil, errors.Wrapf(ErrDeviceUnavailable, "%v", err)
		}
		b.SetListener(c.listener)
		c.logger.Debugw("audio backend opened", "backend", b.Name())
		c.backend = b
		c.ref = utils.NewRefCountedValue(b)
	}

	return c.ref.Ref().(Backend), nil
}

// Release drops one reference taken by Acquire.
func (c *Context) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ref == nil {
		return nil
	}
	if !c.ref.Deref() {
		return nil
	}

	b := c.backend
	c.ref = nil
	c.backend = nil
	c.logger.Debugw("audio backend closed", "backend", b.Name())

	return b.Close()
}

// Active reports whether a backend is currently open.
func (c *Context) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backend != nil
}

// SetListener updates the listener now and for backends opened later.
func (c *Context) SetListener(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l.Volume = min(max(l.Volume, 0), 100)
	c.listener = l
	if c.backend != nil {
		c.backend.SetListener(l)
	}
}

func (c *Context) Listener() Listener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}
