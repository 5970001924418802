// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"

	"github.com/ik5/audstream/audio"
)

// Mixer sums every playing voice into one interleaved output buffer in the
// mixer's format. Hardware backends embed it and call Mix from their device
// callback.
type Mixer struct {
	mu       sync.Mutex
	format   Format
	voices   map[*mixVoice]struct{}
	listener Listener
}

func NewMixer(f Format) *Mixer {
	return &Mixer{
		format:   f,
		voices:   make(map[*mixVoice]struct{}),
		listener: DefaultListener(),
	}
}

func (m *Mixer) Format() Format { return m.format }

func (m *Mixer) SetListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

func (m *Mixer) Listener() Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// Voices returns the number of open voices.
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

func (m *Mixer) NewVoice(f Format) (Voice, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	v := &mixVoice{
		BufferQueue: NewBufferQueue(f),
		mixer:       m,
		pitch:       1,
	}
	reader := &queueReader{q: v.BufferQueue}
	v.resampler = audio.NewResampler(reader, m.format.SampleRate)
	v.direct = audio.NewChannelMixer(reader, m.format.Channels)
	v.resampled = audio.NewChannelMixer(v.resampler, m.format.Channels)
	v.useResampler = f.SampleRate != m.format.SampleRate

	m.mu.Lock()
	m.voices[v] = struct{}{}
	m.mu.Unlock()

	return v, nil
}

// Mix overwrites dst with the next len(dst) samples of output. dst is
// truncated to whole frames.
func (m *Mixer) Mix(dst []float32) {
	clear(dst)
	dst = dst[:len(dst)-len(dst)%m.format.Channels]
	if len(dst) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for v := range m.voices {
		v.mixInto(dst, m.listener, m.format.Channels)
	}

	for i, s := range dst {
		dst[i] = min(max(s, -1), 1)
	}
}

func (m *Mixer) remove(v *mixVoice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.voices, v)
}

type mixVoice struct {
	*BufferQueue
	mixer *Mixer

	// Fields below are touched only by Mix with mixer.mu held.
	resampler    *audio.Resampler
	direct       audio.Source
	resampled    audio.Source
	useResampler bool
	pitch        float32
	gen          uint64
	scratch      []float32
}

func (v *mixVoice) Close() error {
	v.mixer.remove(v)
	return v.BufferQueue.Close()
}

func (v *mixVoice) mixInto(dst []float32, l Listener, channels int) {
	if v.State() != Playing {
		return
	}

	if gen := v.Generation(); gen != v.gen {
		v.gen = gen
		v.resampler.Reset()
	}

	p := v.Params()
	if p.Pitch != v.pitch {
		v.pitch = p.Pitch
		v.resampler.SetPitch(float64(p.Pitch))
		v.useResampler = true
	}

	src := v.direct
	if v.useResampler {
		src = v.resampled
	}

	if cap(v.scratch) < len(dst) {
		v.scratch = make([]float32, len(dst))
	}
	buf := v.scratch[:len(dst)]

	n, _ := src.ReadSamples(buf)
	if n == 0 {
		return
	}

	gain := p.Gain(l)
	if channels != 2 {
		for i, s := range buf[:n] {
			dst[i] += s * gain
		}
		return
	}

	left, right := PanGains(p.Pan)
	left *= gain
	right *= gain
	for i := 0; i+1 < n; i += 2 {
		dst[i] += buf[i] * left
		dst[i+1] += buf[i+1] * right
	}
}

// queueReader exposes a BufferQueue as an audio.Source. An empty or
// non-playing queue reads as (0, nil).
type queueReader struct {
	q *BufferQueue
}

func (r *queueReader) SampleRate() int { return r.q.format.SampleRate }
func (r *queueReader) Channels() int   { return r.q.format.Channels }
func (r *queueReader) BufSize() int    { return 0 }
func (r *queueReader) Close() error    { return nil }

func (r *queueReader) ReadSamples(dst []float32) (int, error) {
	return r.q.Consume(dst), nil
}
