// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/music"
)

type playFlags struct {
	loop       bool
	volume     float32
	pitch      float32
	pan        float32
	offset     time.Duration
	loopStart  time.Duration
	loopLength time.Duration
}

func newPlayCmd(global *globalFlags) *cobra.Command {
	var flags playFlags

	cmd := &cobra.Command{
		Use:   "play FILE",
		Short: "Play an audio file",
		Long:  "Play an audio file until it ends, or forever with --loop. Ctrl-C stops playback.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, global, flags, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.loop, "loop", "l", false, "loop the file, or the span given by --loop-start and --loop-length")
	f.Float32Var(&flags.volume, "volume", 100, "volume, 0 to 100")
	f.Float32Var(&flags.pitch, "pitch", 1, "pitch factor; also changes speed")
	f.Float32Var(&flags.pan, "pan", 0, "stereo pan, -1 (left) to 1 (right)")
	f.DurationVar(&flags.offset, "offset", 0, "start position")
	f.DurationVar(&flags.loopStart, "loop-start", 0, "start of the looped span")
	f.DurationVar(&flags.loopLength, "loop-length", 0, "length of the looped span, 0 for the rest of the file")

	return cmd
}

func runPlay(cmd *cobra.Command, global *globalFlags, flags playFlags, path string) (err error) {
	s, err := global.newSession()
	if err != nil {
		return err
	}

	m := music.New(music.Options{Options: s.streamOptions()})
	defer func() {
		err = multierr.Combine(err, m.Close())
	}()

	if err := m.OpenFile(path); err != nil {
		return err
	}

	m.SetLooping(flags.loop)
	m.SetVolume(flags.volume)
	m.SetPitch(flags.pitch)
	m.SetPan(flags.pan)

	if flags.loopStart > 0 || flags.loopLength > 0 {
		length := flags.loopLength
		if length <= 0 {
			length = m.Duration() - flags.loopStart
		}
		if err := m.SetLoopPoints(music.TimeSpan{Offset: flags.loopStart, Length: length}); err != nil {
			return err
		}
	}
	if flags.offset > 0 {
		m.SetPlayingOffset(flags.offset)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "playing %s: %s, %d channels, %d Hz, %s\n",
		path, m.Format(), m.ChannelCount(), m.SampleRate(), m.Duration())

	m.Play()
	s.wait(cmd.Context(), m.PlayingOffset)

	return nil
}
