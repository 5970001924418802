// SPDX-License-Identifier: EPL-2.0

package device

import "sync"

// BufferQueue is the bookkeeping every voice needs: a FIFO of submitted
// buffers, the played-frame counter, state and params. Backends embed it and
// drain it with Consume or Skip.
type BufferQueue struct {
	mu        sync.Mutex
	format    Format
	bufs      [][]float32
	head      int // samples of bufs[0] already consumed
	processed int
	played    int64
	state     State
	params    Params
	closed    bool
	gen       uint64
}

func NewBufferQueue(f Format) *BufferQueue {
	return &BufferQueue{format: f, params: DefaultParams()}
}

func (q *BufferQueue) Format() Format { return q.format }

func (q *BufferQueue) Submit(samples []float32) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if len(samples) == 0 || len(samples)%q.format.Channels != 0 {
		return ErrBufferRejected
	}
	q.bufs = append(q.bufs, samples)

	return nil
}

func (q *BufferQueue) Reclaim() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.processed
	q.processed = 0

	return n
}

func (q *BufferQueue) Queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.bufs)
}

func (q *BufferQueue) PlayedFrames() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.played
}

func (q *BufferQueue) Flush() {
	q.mu.Lock()
	defer q.mu.Unlock()

	clear(q.bufs)
	q.bufs = q.bufs[:0]
	q.head = 0
	q.processed = 0
	q.played = 0
	q.gen++
}

// Generation changes on every Flush.
func (q *BufferQueue) Generation() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.gen
}

func (q *BufferQueue) SetState(s State) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.state = s

	return nil
}

func (q *BufferQueue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

func (q *BufferQueue) SetParams(p Params) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.params = p
}

func (q *BufferQueue) Params() Params {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.params
}

// Close drops every buffer. Later submits fail with ErrClosed.
func (q *BufferQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	clear(q.bufs)
	q.bufs = nil
	q.state = Stopped

	return nil
}

// Consume copies up to len(dst) samples of whole frames out of the queue
// while playing and returns how many were copied.
func (q *BufferQueue) Consume(dst []float32) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != Playing {
		return 0
	}
	dst = dst[:len(dst)-len(dst)%q.format.Channels]

	n := 0
	for n < len(dst) && len(q.bufs) > 0 {
		c := copy(dst[n:], q.bufs[0][q.head:])
		n += c
		q.advance(c)
	}
	q.played += int64(n / q.format.Channels)

	return n
}

// Skip discards up to frames frames while playing and returns how many were
// dropped.
func (q *BufferQueue) Skip(frames int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != Playing {
		return 0
	}

	want := frames * q.format.Channels
	n := 0
	for n < want && len(q.bufs) > 0 {
		c := min(want-n, len(q.bufs[0])-q.head)
		n += c
		q.advance(c)
	}
	q.played += int64(n / q.format.Channels)

	return n / q.format.Channels
}

func (q *BufferQueue) advance(samples int) {
	q.head += samples
	if q.head < len(q.bufs[0]) {
		return
	}
	q.bufs[0] = nil
	q.bufs = q.bufs[1:]
	q.head = 0
	q.processed++
}
