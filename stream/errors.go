// SPDX-License-Identifier: EPL-2.0

package stream

import "github.com/pkg/errors"

var (
	// ErrInvalidFormat is the panic value of Initialize for a channel count or
	// sample rate that is not positive, or a channel map of the wrong length.
	ErrInvalidFormat = errors.New("invalid stream format")
	// ErrNotInitialized is the panic value of Play before Initialize.
	ErrNotInitialized = errors.New("stream not initialized")
	// ErrInvalidArgument is returned by setters given out-of-range values.
	ErrInvalidArgument = errors.New("invalid argument")
)
