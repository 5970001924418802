// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/formats"
	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/utils"
)

func newConvertCmd(global *globalFlags) *cobra.Command {
	var rate, channels int

	cmd := &cobra.Command{
		Use:   "convert INPUT OUTPUT.wav",
		Short: "Resample and remix an audio file into 16-bit WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rate <= 0 || channels <= 0 {
				return errors.Errorf("rate and channels must be positive, got %d Hz and %d channels", rate, channels)
			}

			cfg, err := global.load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			frames, err := convert(args[0], args[1], rate, channels)
			if err != nil {
				return err
			}
			logger.Debugw("converted", "input", args[0], "output", args[1], "frames", frames)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s\n", args[1], utils.FramesToDuration(frames, rate))

			return nil
		},
	}

	cmd.Flags().IntVarP(&rate, "rate", "r", 8000, "output sample rate in Hz")
	cmd.Flags().IntVarP(&channels, "channels", "c", 1, "output channel count")

	return cmd
}

// convert decodes inPath, renders it at the target format and writes it as
// PCM16. It returns the number of frames written.
func convert(inPath, outPath string, rate, channels int) (frames int64, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Combine(err, in.Close())
	}()

	reg := formats.DefaultRegistry()
	hint, _, _ := reg.ForPath(inPath)
	_, src, err := reg.Detect(in, hint)
	if err != nil {
		return 0, errors.Wrapf(err, "decoding %s", inPath)
	}

	pcm16, err := audstream.Render16(src, rate, channels, 4096*channels)
	if err != nil {
		return 0, errors.Wrapf(err, "decoding %s", inPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	if err := multierr.Combine(wav.WriteWAV16(out, rate, channels, pcm16), out.Close()); err != nil {
		return 0, errors.Wrapf(err, "writing %s", outPath)
	}

	return int64(len(pcm16) / channels), nil
}
