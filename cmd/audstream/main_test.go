// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/ik5/audstream/formats/wav"
)

// run executes the CLI with an empty env file so the developer's
// environment does not leak into the test.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	env := filepath.Join(t.TempDir(), "test.env")
	test.That(t, os.WriteFile(env, nil, 0o600), test.ShouldBeNil)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-file", env))

	err := root.Execute()
	return out.String(), err
}

// writeTone writes frames frames of a constant quarter-scale signal.
func writeTone(t *testing.T, rate, channels, frames int) string {
	t.Helper()

	samples := make([]int16, frames*channels)
	for i := range samples {
		samples[i] = 8192
	}

	var buf bytes.Buffer
	test.That(t, wav.WriteWAV16(&buf, rate, channels, samples), test.ShouldBeNil)

	path := filepath.Join(t.TempDir(), "tone.wav")
	test.That(t, os.WriteFile(path, buf.Bytes(), 0o600), test.ShouldBeNil)

	return path
}

func decodeFile(t *testing.T, path string) (rate, channels int, frames int64) {
	t.Helper()

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	test.That(t, err, test.ShouldBeNil)
	defer src.Close()

	total := int64(0)
	buf := make([]float32, 1024*src.Channels())
	for {
		n, err := src.ReadSamples(buf)
		total += int64(n / src.Channels())
		if err != nil {
			break
		}
	}

	return src.SampleRate(), src.Channels(), total
}

func TestBackends(t *testing.T) {
	out, err := run(t, "backends")
	test.That(t, err, test.ShouldBeNil)
	for _, name := range []string{"beep", "malgo", "null", "oto", "portaudio", "wavfile"} {
		test.That(t, out, test.ShouldContainSubstring, name+"\n")
	}
}

func TestInfo(t *testing.T) {
	path := writeTone(t, 8000, 2, 4000)
	missing := filepath.Join(t.TempDir(), "missing.wav")

	out, err := run(t, "info", path, missing)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "format:      wav")
	test.That(t, out, test.ShouldContainSubstring, "channels:    2 [front-left front-right]")
	test.That(t, out, test.ShouldContainSubstring, "sample rate: 8000 Hz")
	test.That(t, out, test.ShouldContainSubstring, "duration:    500ms")
	test.That(t, out, test.ShouldContainSubstring, missing+": ")
}

func TestConvert(t *testing.T) {
	in := writeTone(t, 8000, 2, 8000)
	out := filepath.Join(t.TempDir(), "out.wav")

	stdout, err := run(t, "convert", in, out, "--rate", "4000", "--channels", "1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "wrote "+out)

	rate, channels, frames := decodeFile(t, out)
	test.That(t, rate, test.ShouldEqual, 4000)
	test.That(t, channels, test.ShouldEqual, 1)
	test.That(t, frames, test.ShouldBeGreaterThanOrEqualTo, 3990)
	test.That(t, frames, test.ShouldBeLessThanOrEqualTo, 4010)

	_, err = run(t, "convert", in, out, "--rate", "0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlayToEnd(t *testing.T) {
	path := writeTone(t, 8000, 1, 1600)

	out, err := run(t, "play", path, "--backend", "null", "--volume", "50")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "playing "+path+": wav, 1 channels, 8000 Hz, 200ms")
}

func TestPlayRejectsBadInput(t *testing.T) {
	_, err := run(t, "play", filepath.Join(t.TempDir(), "missing.wav"), "--backend", "null")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "play", writeTone(t, 8000, 1, 800), "--backend", "gramophone")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "play", writeTone(t, 8000, 1, 800), "--backend", "null", "--loop-start", "1s")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestToneToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tone.wav")

	stdout, err := run(t, "tone", "--waveform", "square", "--duration", "100ms", "--output", out)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stdout, test.ShouldContainSubstring, "playing square at 440 Hz for 100ms")

	rate, channels, frames := decodeFile(t, out)
	test.That(t, rate, test.ShouldEqual, 44100)
	test.That(t, channels, test.ShouldEqual, 2)
	test.That(t, frames, test.ShouldBeGreaterThan, 0)

	_, err = run(t, "tone", "--waveform", "noise", "--backend", "null")
	test.That(t, err, test.ShouldNotBeNil)
}
