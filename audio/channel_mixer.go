// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts the channel layout of src to a fixed output count.
// Output channel c is the average of every input channel i with i%out == c
// when the source has at least as many channels, and a copy of input
// channel c%in otherwise. Mono downmix and mono duplication fall out of that
// rule.
type ChannelMixer struct {
	src Source
	out int
	tmp []float32
}

func NewChannelMixer(src Source, outChannels int) *ChannelMixer {
	return &ChannelMixer{
		src: src,
		out: outChannels,
		tmp: make([]float32, 4096),
	}
}

// NewMonoMixer averages every channel of src into one.
func NewMonoMixer(src Source) *ChannelMixer {
	return NewChannelMixer(src, 1)
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.out }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples returns the number of output samples written.
func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.out != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.out {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.out
	samplesNeeded := frames * in

	// Grow tmp buffer if needed (but don't shrink to avoid thrashing)
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames = n / in

	switch {
	case m.out == 1:
		m.downmixMono(dst, frames, in)
	case in == 1:
		for f := range frames {
			v := m.tmp[f]
			o := dst[f*m.out : (f+1)*m.out]
			for c := range o {
				o[c] = v
			}
		}
	case in > m.out:
		m.fold(dst, frames, in)
	default:
		for f := range frames {
			src := m.tmp[f*in : (f+1)*in]
			o := dst[f*m.out : (f+1)*m.out]
			for c := range o {
				o[c] = src[c%in]
			}
		}
	}

	return frames * m.out, err
}

func (m *ChannelMixer) downmixMono(dst []float32, frames, in int) {
	// Unrolled loop for common cases
	switch in {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	case 4:
		for f := range frames {
			idx := f << 2
			sum := m.tmp[idx] + m.tmp[idx+1] + m.tmp[idx+2] + m.tmp[idx+3]
			dst[f] = sum * 0.25
		}
	default:
		inv := float32(1.0) / float32(in)
		for f := range frames {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	}
}

func (m *ChannelMixer) fold(dst []float32, frames, in int) {
	for f := range frames {
		src := m.tmp[f*in : (f+1)*in]
		o := dst[f*m.out : (f+1)*m.out]
		for c := range o {
			sum := float32(0)
			count := 0
			for i := c; i < in; i += m.out {
				sum += src[i]
				count++
			}
			o[c] = sum / float32(count)
		}
	}
}
