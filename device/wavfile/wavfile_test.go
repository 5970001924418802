// SPDX-License-Identifier: EPL-2.0

package wavfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"
	"go.viam.com/utils/testutils"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/formats/wav"
)

func TestRendersVoices(t *testing.T) {
	logger := golog.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "out.wav")

	cfg := device.Config{SampleRate: 8000, Channels: 1, Period: 5 * time.Millisecond, Output: path}
	b, err := New(cfg)(logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Name(), test.ShouldEqual, Name)

	v, err := b.NewVoice(device.Format{Channels: 1, SampleRate: 8000})
	test.That(t, err, test.ShouldBeNil)

	samples := make([]float32, 80)
	for i := range samples {
		samples[i] = 0.5
	}
	test.That(t, v.Submit(samples), test.ShouldBeNil)
	test.That(t, v.SetState(device.Playing), test.ShouldBeNil)

	testutils.WaitForAssertion(t, func(tb testing.TB) {
		tb.Helper()
		test.That(tb, v.Queued(), test.ShouldEqual, 0)
	})

	test.That(t, v.PlayedFrames(), test.ShouldEqual, 80)
	test.That(t, v.Close(), test.ShouldBeNil)
	test.That(t, b.Close(), test.ShouldBeNil)
	test.That(t, b.Close(), test.ShouldBeNil)

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, src.SampleRate(), test.ShouldEqual, 8000)
	test.That(t, src.Channels(), test.ShouldEqual, 1)

	loud := 0
	buf := make([]float32, 256)
	for {
		n, err := src.ReadSamples(buf)
		for _, s := range buf[:n] {
			if s > 0.49 && s < 0.51 {
				loud++
			}
		}
		if err != nil {
			break
		}
	}
	test.That(t, loud, test.ShouldEqual, 80)
}

func TestRequiresOutput(t *testing.T) {
	_, err := New(device.Config{SampleRate: 8000, Channels: 1})(golog.NewTestLogger(t))
	test.That(t, errors.Is(err, ErrNoOutput), test.ShouldBeTrue)
}
