// SPDX-License-Identifier: EPL-2.0

package tone

import (
	"math"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ik5/audstream/stream"
	"github.com/ik5/audstream/utils"
)

// Config describes the generated signal.
type Config struct {
	Waveform  Waveform
	Frequency float64 // Hz
	Amplitude float32 // 0..1
	Channels  int
	// SampleRate in Hz.
	SampleRate int
	// Duration of the tone; zero plays forever.
	Duration time.Duration
}

func DefaultConfig() Config {
	return Config{
		Waveform:   Sine,
		Frequency:  440,
		Amplitude:  0.5,
		Channels:   2,
		SampleRate: 44100,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Waveform < Sine || c.Waveform > Silence:
		return errors.Wrapf(ErrInvalidConfig, "waveform %d", c.Waveform)
	case c.Channels <= 0:
		return errors.Wrapf(ErrInvalidConfig, "channels %d", c.Channels)
	case c.SampleRate <= 0:
		return errors.Wrapf(ErrInvalidConfig, "sample rate %d", c.SampleRate)
	case c.Frequency < 0 || c.Frequency > float64(c.SampleRate)/2:
		return errors.Wrapf(ErrInvalidConfig, "frequency %v Hz outside 0..%d Hz", c.Frequency, c.SampleRate/2)
	case c.Amplitude < 0 || c.Amplitude > 1:
		return errors.Wrapf(ErrInvalidConfig, "amplitude %v", c.Amplitude)
	case c.Duration < 0:
		return errors.Wrapf(ErrInvalidConfig, "duration %v", c.Duration)
	}
	return nil
}

// Tone is a stream.Source that computes its samples on demand.
type Tone struct {
	*stream.Stream

	cfg    Config
	logger golog.Logger

	mu     sync.Mutex
	total  int64 // frames, -1 when endless
	cursor int64
	buf    []float32
}

// New validates cfg and returns a stopped Tone ready to Play.
func New(cfg Config, opts stream.Options) (*Tone, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = golog.NewLogger("audstream")
	}

	t := &Tone{
		cfg:    cfg,
		logger: opts.Logger.Named("tone"),
		total:  -1,
	}
	if cfg.Duration > 0 {
		t.total = max(utils.DurationToFrames(cfg.Duration, cfg.SampleRate), 1)
	}

	t.Stream = stream.New(t, opts)
	t.Stream.Initialize(cfg.Channels, cfg.SampleRate, nil)
	t.logger.Debugw("tone ready",
		"waveform", cfg.Waveform,
		"frequency", cfg.Frequency,
		"channels", cfg.Channels,
		"sample_rate", cfg.SampleRate,
		"duration", cfg.Duration,
	)

	return t, nil
}

func (t *Tone) Config() Config { return t.cfg }

// Duration is zero for an endless tone.
func (t *Tone) Duration() time.Duration {
	if t.total < 0 {
		return 0
	}
	return utils.FramesToDuration(t.total, t.cfg.SampleRate)
}

// Produce implements stream.Source.
func (t *Tone) Produce(maxFrames int, loop bool) (stream.Chunk, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.total >= 0 && t.cursor >= t.total {
		if !loop {
			return stream.Chunk{}, false
		}
		t.cursor = 0
	}

	frames := int64(maxFrames)
	if t.total >= 0 {
		frames = min(frames, t.total-t.cursor)
	}

	ch := t.cfg.Channels
	want := int(frames) * ch
	if cap(t.buf) < want {
		t.buf = make([]float32, want)
	}
	t.buf = t.buf[:want]

	offset := t.cursor
	for f := range int(frames) {
		v := t.sample(offset + int64(f))
		frame := t.buf[f*ch : (f+1)*ch]
		for c := range frame {
			frame[c] = v
		}
	}
	t.cursor += frames

	return stream.Chunk{Samples: t.buf, Offset: offset}, true
}

// Seek implements stream.Source.
func (t *Tone) Seek(frame int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor = max(frame, 0)
	if t.total >= 0 {
		t.cursor = min(t.cursor, t.total)
	}

	return t.cursor
}

func (t *Tone) sample(frame int64) float32 {
	_, phase := math.Modf(float64(frame) * t.cfg.Frequency / float64(t.cfg.SampleRate))
	return t.cfg.Amplitude * float32(t.cfg.Waveform.at(phase))
}
