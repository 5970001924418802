// SPDX-License-Identifier: EPL-2.0

// Package device abstracts audio output. A Backend hands out Voices that
// accept queued float32 buffers and report how many have finished playing.
// Context reference-counts a backend across the streams that share it.
//
// Hardware backends live in subpackages and register themselves by name:
//
//	import _ "github.com/ik5/audstream/device/malgo"
//
//	factory, err := device.Lookup("malgo")
//	ctx := device.NewContext(factory(device.DefaultConfig()), logger)
//
// The "null" backend is always registered. Its voices play silently in real
// time.
package device
