// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/edaniels/golog"

	"github.com/ik5/audstream/config"
	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/stream"
)

const progressInterval = time.Second

// session carries what every playing command needs: configuration, a
// logger and the shared output device.
type session struct {
	cfg    *config.Config
	logger golog.Logger
	device *device.Context

	once  sync.Once
	ended chan struct{}
}

func (f *globalFlags) newSession() (*session, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	open, err := cfg.Opener()
	if err != nil {
		return nil, err
	}
	logger.Debugw("using backend", "backend", cfg.Device.Backend, "sample_rate", cfg.Device.SampleRate)

	return &session{
		cfg:    cfg,
		logger: logger,
		device: device.NewContext(open, logger),
		ended:  make(chan struct{}),
	}, nil
}

// streamOptions reports the first transition to Stopped on s.ended.
func (s *session) streamOptions() stream.Options {
	opts := s.cfg.StreamOptions(s.device, s.logger)
	opts.OnStatus = func(_, new stream.Status) {
		if new == stream.Stopped {
			s.once.Do(func() { close(s.ended) })
		}
	}
	return opts
}

// wait blocks until playback ends, ctx is done or SIGINT/SIGTERM arrives,
// logging the position every second.
func (s *session) wait(ctx context.Context, position func() time.Duration) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ended:
			s.logger.Debug("playback finished")
			return
		case <-ctx.Done():
			s.logger.Infow("interrupted", "position", position())
			return
		case <-ticker.C:
			s.logger.Debugw("playing", "position", position())
		}
	}
}
