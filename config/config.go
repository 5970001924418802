// SPDX-License-Identifier: EPL-2.0

// Package config loads the player configuration from an optional YAML file,
// a .env file and AUDSTREAM_ prefixed environment variables, in increasing
// order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/stream"
)

// EnvPrefix prefixes every environment override, e.g.
// AUDSTREAM_DEVICE_BACKEND.
const EnvPrefix = "AUDSTREAM"

// DefaultEnvFile is read when Load is not given any env files.
const DefaultEnvFile = ".env"

type Config struct {
	Device  DeviceConfig  `mapstructure:"device"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type DeviceConfig struct {
	Backend    string        `mapstructure:"backend"`
	SampleRate int           `mapstructure:"sample_rate"`
	Channels   int           `mapstructure:"channels"`
	Period     time.Duration `mapstructure:"period"`
	// Output is only used by file backends.
	Output string `mapstructure:"output"`
}

type StreamConfig struct {
	BufferCount    int           `mapstructure:"buffer_count"`
	BufferDuration time.Duration `mapstructure:"buffer_duration"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	dev := device.DefaultConfig()
	v.SetDefault("device.backend", "malgo")
	v.SetDefault("device.sample_rate", dev.SampleRate)
	v.SetDefault("device.channels", dev.Channels)
	v.SetDefault("device.period", dev.Period)
	v.SetDefault("device.output", "")

	v.SetDefault("stream.buffer_count", stream.DefaultBufferCount)
	v.SetDefault("stream.buffer_duration", stream.DefaultBufferDuration)
	v.SetDefault("stream.poll_interval", stream.DefaultPollInterval)

	v.SetDefault("logging.level", "info")
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load reads path, or audstream.yaml from the working directory,
// $HOME/.audstream and /etc/audstream when path is empty. A missing file is
// only an error when path was given explicitly. envFiles are loaded into the
// process environment first without overriding variables that are already
// set; with no envFiles, DefaultEnvFile is used if it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("audstream")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.audstream")
		v.AddConfigPath("/etc/audstream")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config")
		}
		golog.Global().Debugw("no config file found, using defaults and environment")
	} else {
		golog.Global().Debugw("using config file", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	return &cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil
		}
		files = []string{DefaultEnvFile}
	}

	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, "loading env file")
	}
	return nil
}

// Validate reports the first invalid field as an *Error.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Device.Backend) == "":
		return &Error{Field: "device.backend", Message: "backend is required"}
	case c.Device.SampleRate <= 0:
		return &Error{Field: "device.sample_rate", Message: "must be positive"}
	case c.Device.Channels <= 0:
		return &Error{Field: "device.channels", Message: "must be positive"}
	case c.Device.Period <= 0:
		return &Error{Field: "device.period", Message: "must be positive"}
	case c.Stream.BufferCount < 2:
		return &Error{Field: "stream.buffer_count", Message: "at least two buffers are needed to keep the device fed"}
	case c.Stream.BufferDuration <= 0:
		return &Error{Field: "stream.buffer_duration", Message: "must be positive"}
	case c.Stream.PollInterval <= 0:
		return &Error{Field: "stream.poll_interval", Message: "must be positive"}
	}

	if _, err := c.Logging.ZapLevel(); err != nil {
		return &Error{Field: "logging.level", Message: err.Error()}
	}

	return nil
}

// BackendConfig converts the device section for a backend factory.
func (c *Config) BackendConfig() device.Config {
	return device.Config{
		SampleRate: c.Device.SampleRate,
		Channels:   c.Device.Channels,
		Period:     c.Device.Period,
		Output:     c.Device.Output,
	}
}

// Opener resolves the configured backend. The backend package must have
// been imported for it to be registered.
func (c *Config) Opener() (device.Opener, error) {
	factory, err := device.Lookup(c.Device.Backend)
	if err != nil {
		return nil, err
	}
	return factory(c.BackendConfig()), nil
}

// StreamOptions fills the buffering fields of stream.Options.
func (c *Config) StreamOptions(dev *device.Context, logger golog.Logger) stream.Options {
	return stream.Options{
		Device:         dev,
		Logger:         logger,
		BufferCount:    c.Stream.BufferCount,
		BufferDuration: c.Stream.BufferDuration,
		PollInterval:   c.Stream.PollInterval,
	}
}

func (l LoggingConfig) ZapLevel() (zapcore.Level, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, errors.Wrapf(err, "log level %q", l.Level)
	}
	return level, nil
}

// Error names the configuration field that failed validation.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Message
}
