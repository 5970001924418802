// SPDX-License-Identifier: EPL-2.0

package tone

import "github.com/pkg/errors"

var (
	ErrInvalidConfig   = errors.New("invalid tone configuration")
	ErrUnknownWaveform = errors.New("unknown waveform")
)
