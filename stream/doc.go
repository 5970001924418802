// SPDX-License-Identifier: EPL-2.0

// Package stream implements pull-based audio streaming. A Stream asks its
// Source for the next block of samples whenever one of its device buffers
// frees up, so arbitrarily long audio plays with a fixed amount of memory.
//
// Control calls (Play, Pause, Stop, SetPlayingOffset) may come from any
// goroutine. The Source is only ever called from the stream's worker.
package stream
