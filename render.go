// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

// ErrInvalidTarget is returned for a non-positive rate or channel count.
var ErrInvalidTarget = errors.New("target rate and channels must be positive")

// ErrStalled is returned when src keeps returning no samples without
// reaching io.EOF.
var ErrStalled = errors.New("source stopped producing samples")

// maxEmptyReads bounds the (0, nil) reads tolerated in a row.
const maxEmptyReads = 64

// Render16 drains src through a resample -> remix pipeline and returns the
// whole result as interleaved 16-bit PCM. Stages whose input already
// matches the target are skipped. src is closed when Render16 returns.
//
// It is meant for offline conversion of short files; use music.Music to
// play without holding the whole file in memory.
func Render16(src audio.Source, rate, channels, bufferSize int) (pcm16 []int16, err error) {
	if rate <= 0 || channels <= 0 {
		return nil, ErrInvalidTarget
	}

	var pipeline audio.Source = src
	if src.SampleRate() != rate {
		pipeline = audio.NewResampler(pipeline, rate)
	}
	if src.Channels() != channels {
		pipeline = audio.NewChannelMixer(pipeline, channels)
	}
	defer func() {
		if cerr := pipeline.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w", cerr)
		}
	}()

	// whole frames only; both stages reject partial ones
	bufferSize -= bufferSize % (channels * src.Channels())
	if bufferSize <= 0 {
		bufferSize = channels * src.Channels()
	}
	buf := make([]float32, bufferSize)

	// ~2 seconds to start with
	pcm16 = make([]int16, 0, rate*channels*2)

	empty := 0
	for {
		n, err := pipeline.ReadSamples(buf)
		for _, v := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}

		if err == io.EOF {
			return pcm16, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty > maxEmptyReads {
			return nil, ErrStalled
		}
	}
}
