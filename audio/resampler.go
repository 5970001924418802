// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/ik5/audstream/utils"
)

// minPitch keeps a zero or vanishing pitch from stalling the read cursor.
const minPitch = 0.001

// readBlockFrames bounds how far the resampler reads ahead of its output.
const readBlockFrames = 256

// Resampler streams from src to target sample rate using cubic interpolation.
// Works on interleaved samples; preserves channel count.
// A pitch factor scales the playback rate on top of the rate conversion.
// Includes basic anti-aliasing filtering when the effective ratio downsamples.
//
// When src returns (0, nil) the Resampler returns what it produced so far
// with a nil error and resumes on the next call.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	pitch    float64
	ratio    float64 // source frames consumed per output frame
	channels int

	// frames[1] is the frame at the integer part of the cursor,
	// frames[0] the one before, frames[2..3] the lookahead.
	frames [4][]float32
	valid  [4]bool
	primed bool

	// Fractional position between frames[1] and frames[2]
	pos float64

	srcBuf  []float32
	bufPos  int
	bufLen  int
	srcDone bool // src reported io.EOF; drain srcBuf then stop
	eof     bool
	padded  bool // a copy of the last frame was appended after eof

	filterState []float32
	useFilter   bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		pitch:       1,
		channels:    channels,
		srcBuf:      make([]float32, readBlockFrames*channels),
		filterState: make([]float32, channels),
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}
	r.updateRatio()

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// Ratio returns source frames consumed per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// SetPitch scales the playback rate. The sign is ignored.
func (r *Resampler) SetPitch(pitch float64) {
	pitch = math.Abs(pitch)
	if pitch < minPitch {
		pitch = minPitch
	}
	r.pitch = pitch
	r.updateRatio()
}

// Reset drops interpolation history and buffered input, e.g. after the
// underlying source was flushed.
func (r *Resampler) Reset() {
	for i := range r.valid {
		r.valid[i] = false
	}
	clear(r.filterState)
	r.primed = false
	r.pos = 0
	r.bufPos, r.bufLen = 0, 0
	r.srcDone = false
	r.eof = false
	r.padded = false
}

func (r *Resampler) updateRatio() {
	r.ratio = r.srcRate * r.pitch / r.dstRate

	// Simple one-pole low-pass when downsampling
	r.useFilter = r.ratio > 1.0
	if r.useFilter {
		r.filterAlpha = 0.5
	}
}

// fetch copies the next source frame into dst.
// It reports false with a nil error when the source is starved.
func (r *Resampler) fetch(dst []float32) (bool, error) {
	if r.bufPos >= r.bufLen {
		if r.srcDone {
			return false, io.EOF
		}

		n, err := r.src.ReadSamples(r.srcBuf)
		n -= n % r.channels
		r.bufPos, r.bufLen = 0, n

		switch {
		case err == io.EOF:
			r.srcDone = true
			if n == 0 {
				return false, io.EOF
			}
		case err != nil:
			return false, fmt.Errorf("%w", err)
		case n == 0:
			return false, nil
		}
	}

	copy(dst, r.srcBuf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels

	if r.useFilter {
		for c := range r.channels {
			// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
			dst[c] = r.filterAlpha*dst[c] + (1-r.filterAlpha)*r.filterState[c]
			r.filterState[c] = dst[c]
		}
	}

	return true, nil
}

// fillLookahead loads frames[2] and frames[3]. It returns false when the
// source is starved. After eof the last frame is repeated once so the
// cursor can reach it.
func (r *Resampler) fillLookahead() (bool, error) {
	for i := 2; i < 4; i++ {
		if r.valid[i] {
			continue
		}
		if !r.eof {
			ok, err := r.fetch(r.frames[i])
			if err != nil && err != io.EOF {
				return false, err
			}
			if ok {
				r.valid[i] = true
				continue
			}
			if err == nil {
				return false, nil
			}
			r.eof = true
		}

		if i == 2 && !r.padded {
			copy(r.frames[2], r.frames[1])
			r.valid[2] = true
			r.padded = true
		}
		break
	}

	return true, nil
}

func (r *Resampler) shift() {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.valid[0] = r.valid[1]
	r.valid[1] = r.valid[2]
	r.valid[2] = r.valid[3]
	r.valid[3] = false
}

func (r *Resampler) prime() (bool, error) {
	ok, err := r.fetch(r.frames[1])
	if err == io.EOF {
		r.eof = true
		return false, io.EOF
	}
	if err != nil || !ok {
		return false, err
	}

	if r.useFilter {
		copy(r.filterState, r.frames[1])
	}
	copy(r.frames[0], r.frames[1])
	r.valid[0], r.valid[1] = true, true
	r.primed = true

	return true, nil
}

// ReadSamples produces dst samples at r.dstRate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			ok, err := r.fillLookahead()
			if err != nil {
				return written * r.channels, err
			}
			if !ok {
				return written * r.channels, nil
			}
			if !r.valid[2] {
				return r.finish(written)
			}
			r.shift()
			r.pos -= 1.0
		}

		ok, err := r.fillLookahead()
		if err != nil {
			return written * r.channels, err
		}
		if !ok {
			return written * r.channels, nil
		}
		if !r.valid[2] {
			return r.finish(written)
		}

		y3 := r.frames[3]
		if !r.valid[3] {
			y3 = r.frames[2]
		}

		out := dst[written*r.channels : (written+1)*r.channels]
		utils.CubicInterpolateFrame(out, r.frames[0], r.frames[1], r.frames[2], y3, float32(r.pos))

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

func (r *Resampler) finish(written int) (int, error) {
	if written == 0 {
		return 0, io.EOF
	}
	return written * r.channels, io.EOF
}
