// SPDX-License-Identifier: EPL-2.0

package music

import "errors"

var (
	// ErrOpenFailed wraps every failure to open a file, buffer or reader.
	ErrOpenFailed = errors.New("failed to open music")
	// ErrNotOpen is returned by operations that need an open file.
	ErrNotOpen = errors.New("no music open")
	// ErrInvalidLoopPoints is returned by SetLoopPoints for an empty span or
	// one that starts past the end.
	ErrInvalidLoopPoints = errors.New("invalid loop points")
)
