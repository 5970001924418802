// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ik5/audstream/config"
)

// Version is set at build time.
var Version = "dev"

type globalFlags struct {
	configFile string
	envFiles   []string
	backend    string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "audstream",
		Short: "Stream audio files to a sound device",
		Long: `audstream decodes WAV, AIFF, Ogg Vorbis and MP3 files and streams them to
an output backend a buffer at a time, without loading the whole file.

Settings come from audstream.yaml, a .env file and AUDSTREAM_ environment
variables; flags override all of them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is ./audstream.yaml)")
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, "env files to load (default is ./.env when present)")
	pf.StringVarP(&flags.backend, "backend", "b", "", "output backend, see the backends command")
	pf.StringVarP(&flags.output, "output", "o", "", "output path for file backends")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newPlayCmd(&flags),
		newToneCmd(&flags),
		newInfoCmd(&flags),
		newConvertCmd(&flags),
		newBackendsCmd(),
	)

	return root
}

// load reads the configuration and applies the global flags on top of it.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configFile, f.envFiles...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	if f.backend != "" {
		cfg.Device.Backend = f.backend
	}
	if f.output != "" {
		cfg.Device.Output = f.output
		if f.backend == "" {
			cfg.Device.Backend = "wavfile"
		}
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) (golog.Logger, error) {
	level, err := cfg.Logging.ZapLevel()
	if err != nil {
		return nil, err
	}

	zapCfg := golog.NewProductionLoggerConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout carries command output
	zapCfg.OutputPaths = []string{"stderr"}
	if level == zap.DebugLevel {
		zapCfg.Development = true
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up logging")
	}

	return logger.Sugar().Named("audstream"), nil
}
