// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/pkg/errors"

var (
	// ErrDeviceUnavailable is returned when the backend cannot be opened.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrBufferRejected is returned by Submit when the voice cannot take the buffer.
	ErrBufferRejected = errors.New("buffer rejected by voice")
	// ErrInvalidFormat is returned for non-positive channel counts or rates.
	ErrInvalidFormat = errors.New("invalid audio format")
	// ErrUnknownBackend is returned by Lookup for unregistered names.
	ErrUnknownBackend = errors.New("unknown audio backend")
	// ErrClosed is returned when using a closed voice or backend.
	ErrClosed = errors.New("closed")
)
