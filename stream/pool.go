// SPDX-License-Identifier: EPL-2.0

package stream

// bufferPool is a ring of equally sized sample buffers. Buffers are handed
// to the voice in ring order and come back in the same order.
type bufferPool struct {
	bufs   [][]float32
	frames int
	head   int
	queued int
}

func newBufferPool(count, frames, channels int) *bufferPool {
	p := &bufferPool{bufs: make([][]float32, count), frames: frames}
	for i := range p.bufs {
		p.bufs[i] = make([]float32, frames*channels)
	}
	return p
}

func (p *bufferPool) hasFree() bool { return p.queued < len(p.bufs) }

// next returns the buffer the following submit must use.
func (p *bufferPool) next() []float32 {
	return p.bufs[(p.head+p.queued)%len(p.bufs)]
}

func (p *bufferPool) submitted() { p.queued++ }

func (p *bufferPool) reclaim(n int) {
	n = min(n, p.queued)
	p.head = (p.head + n) % len(p.bufs)
	p.queued -= n
}

func (p *bufferPool) reset() {
	p.head = 0
	p.queued = 0
}
