// SPDX-License-Identifier: EPL-2.0

package stream

// Chunk is the result of one pull. Samples are interleaved and hold whole
// frames. The stream copies them before the next call, so a Source may
// reuse the backing array.
type Chunk struct {
	Samples []float32
	// Offset is the source frame of Samples[0].
	Offset int64
}

// Source feeds a Stream. Both methods are only ever called from the
// stream's worker goroutine, one call at a time.
type Source interface {
	// Produce returns at most maxFrames frames. more is false once the
	// source is exhausted and will not wrap; a chunk returned together with
	// more == false is still played. An empty chunk with more == true means
	// nothing is available yet.
	Produce(maxFrames int, loop bool) (chunk Chunk, more bool)
	// Seek moves the read cursor and returns the frame it landed on.
	Seek(frame int64) int64
}
