// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/tone"
)

func newToneCmd(global *globalFlags) *cobra.Command {
	var (
		waveform string
		cfg      = tone.DefaultConfig()
	)
	cfg.Duration = 2 * time.Second

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Play a test tone",
		Long:  "Play a generated waveform, useful to check a backend without an audio file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			w, err := tone.ParseWaveform(waveform)
			if err != nil {
				return err
			}
			cfg.Waveform = w

			s, err := global.newSession()
			if err != nil {
				return err
			}
			cfg.SampleRate = s.cfg.Device.SampleRate
			cfg.Channels = s.cfg.Device.Channels

			t, err := tone.New(cfg, s.streamOptions())
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Combine(err, t.Close())
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "playing %s at %v Hz for %s\n", cfg.Waveform, cfg.Frequency, cfg.Duration)

			t.Play()
			s.wait(cmd.Context(), t.PlayingOffset)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&waveform, "waveform", "w", tone.Sine.String(), "sine, square, sawtooth, triangle or silence")
	f.Float64VarP(&cfg.Frequency, "frequency", "f", cfg.Frequency, "frequency in Hz")
	f.Float32VarP(&cfg.Amplitude, "amplitude", "a", cfg.Amplitude, "amplitude, 0 to 1")
	f.DurationVarP(&cfg.Duration, "duration", "d", cfg.Duration, "length of the tone, 0 plays until interrupted")

	return cmd
}
