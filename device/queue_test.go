// SPDX-License-Identifier: EPL-2.0

package device

import (
	"testing"

	"go.viam.com/test"
)

func TestBufferQueueConsume(t *testing.T) {
	q := NewBufferQueue(Format{Channels: 2, SampleRate: 44100})

	test.That(t, q.Submit([]float32{1, 1, 2, 2}), test.ShouldBeNil)
	test.That(t, q.Submit([]float32{3, 3}), test.ShouldBeNil)
	test.That(t, q.Queued(), test.ShouldEqual, 2)

	dst := make([]float32, 4)
	test.That(t, q.Consume(dst), test.ShouldEqual, 0)

	test.That(t, q.SetState(Playing), test.ShouldBeNil)
	test.That(t, q.Consume(dst[:3]), test.ShouldEqual, 2)
	test.That(t, dst[:2], test.ShouldResemble, []float32{1, 1})
	test.That(t, q.Reclaim(), test.ShouldEqual, 0)

	test.That(t, q.Consume(dst), test.ShouldEqual, 4)
	test.That(t, dst, test.ShouldResemble, []float32{2, 2, 3, 3})
	test.That(t, q.PlayedFrames(), test.ShouldEqual, 3)
	test.That(t, q.Reclaim(), test.ShouldEqual, 2)
	test.That(t, q.Reclaim(), test.ShouldEqual, 0)
	test.That(t, q.Queued(), test.ShouldEqual, 0)

	test.That(t, q.Consume(dst), test.ShouldEqual, 0)
}

func TestBufferQueueRejects(t *testing.T) {
	q := NewBufferQueue(Format{Channels: 2, SampleRate: 44100})

	test.That(t, q.Submit(nil), test.ShouldBeError, ErrBufferRejected)
	test.That(t, q.Submit([]float32{1, 2, 3}), test.ShouldBeError, ErrBufferRejected)

	test.That(t, q.Close(), test.ShouldBeNil)
	test.That(t, q.Submit([]float32{1, 2}), test.ShouldBeError, ErrClosed)
	test.That(t, q.SetState(Playing), test.ShouldBeError, ErrClosed)
	test.That(t, q.State(), test.ShouldEqual, Stopped)
}

func TestBufferQueueFlush(t *testing.T) {
	q := NewBufferQueue(Format{Channels: 1, SampleRate: 8000})
	test.That(t, q.SetState(Playing), test.ShouldBeNil)

	test.That(t, q.Submit(make([]float32, 10)), test.ShouldBeNil)
	test.That(t, q.Submit(make([]float32, 10)), test.ShouldBeNil)
	test.That(t, q.Skip(15), test.ShouldEqual, 15)
	test.That(t, q.PlayedFrames(), test.ShouldEqual, 15)

	gen := q.Generation()
	q.Flush()

	test.That(t, q.Generation(), test.ShouldNotEqual, gen)
	test.That(t, q.Queued(), test.ShouldEqual, 0)
	test.That(t, q.PlayedFrames(), test.ShouldEqual, 0)
	test.That(t, q.Reclaim(), test.ShouldEqual, 0)
	test.That(t, q.Skip(5), test.ShouldEqual, 0)
}

func TestBufferQueuePausedSkip(t *testing.T) {
	q := NewBufferQueue(Format{Channels: 1, SampleRate: 8000})
	test.That(t, q.Submit(make([]float32, 4)), test.ShouldBeNil)

	test.That(t, q.SetState(Paused), test.ShouldBeNil)
	test.That(t, q.Skip(4), test.ShouldEqual, 0)

	test.That(t, q.SetState(Playing), test.ShouldBeNil)
	test.That(t, q.Skip(10), test.ShouldEqual, 4)
	test.That(t, q.Reclaim(), test.ShouldEqual, 1)
}
