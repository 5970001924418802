// SPDX-License-Identifier: EPL-2.0

// Package utils holds small numeric helpers shared by the decoders, the
// device mixer and the streaming engine: PCM conversion, cubic
// interpolation and frame/time arithmetic.
package utils
