// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/edaniels/golog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/music"
	"github.com/ik5/audstream/stream"
)

func newInfoCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print format, channels, rate and duration of audio files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			// never played, so no device is opened
			m := music.New(music.Options{Options: stream.Options{Logger: logger}})
			defer func() {
				err = multierr.Combine(err, m.Close())
			}()

			out := cmd.OutOrStdout()
			for _, path := range args {
				if err := m.OpenFile(path); err != nil {
					logger.Errorw("cannot read file", "path", path, "error", err)
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				printInfo(cmd, path, m, logger)
			}

			return nil
		},
	}
}

func printInfo(cmd *cobra.Command, path string, m *music.Music, logger golog.Logger) {
	logger.Debugw("file info", "path", path, "format", m.Format())
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n  format:      %s\n  channels:    %d %v\n  sample rate: %d Hz\n  duration:    %s\n",
		path, m.Format(), m.ChannelCount(), m.ChannelMap(), m.SampleRate(), m.Duration())
}
