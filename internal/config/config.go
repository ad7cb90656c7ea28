// Package config loads tunescope settings from flags, environment and an
// optional YAML file through viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/0xlemi/tunescope/internal/pitch"
	"github.com/0xlemi/tunescope/internal/spectrum"
)

// Recovery policies applied when a capture comes up short
const (
	RecoveryAbort = "abort"
	RecoveryReset = "reset"
)

// Display modes
const (
	DisplayAuto  = "auto"
	DisplayTUI   = "tui"
	DisplayPlain = "plain"
)

// EnvPrefix is the prefix of environment overrides, e.g. TUNESCOPE_ANALYSIS_BUFFER_SIZE
const EnvPrefix = "TUNESCOPE"

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the application configuration
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	Device   DeviceConfig   `mapstructure:"device" yaml:"device"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Recovery RecoveryConfig `mapstructure:"recovery" yaml:"recovery"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// DeviceConfig selects the capture device
type DeviceConfig struct {
	Name       string  `mapstructure:"name" yaml:"name"`
	SampleRate int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	Latency    float64 `mapstructure:"latency" yaml:"latency"` // seconds, 0 uses the device default
}

// AnalysisConfig contains the pitch detection parameters
type AnalysisConfig struct {
	BufferSize        int     `mapstructure:"buffer_size" yaml:"buffer_size"`
	CaptureSize       int     `mapstructure:"capture_size" yaml:"capture_size"`
	MagnitudeCutoff   float64 `mapstructure:"magnitude_cutoff" yaml:"magnitude_cutoff"`
	BindCutoff        float64 `mapstructure:"bind_cutoff" yaml:"bind_cutoff"`
	HarmonicTolerance float64 `mapstructure:"harmonic_tolerance" yaml:"harmonic_tolerance"`
	AverageLength     int     `mapstructure:"average_length" yaml:"average_length"`
	Transform         string  `mapstructure:"transform" yaml:"transform"`
}

// RecoveryConfig controls what the session does on a short capture
type RecoveryConfig struct {
	OnUnderflow string `mapstructure:"on_underflow" yaml:"on_underflow"`
	MaxRetries  int    `mapstructure:"max_retries" yaml:"max_retries"`
}

// DisplayConfig controls how detected tones are shown
type DisplayConfig struct {
	Mode      string  `mapstructure:"mode" yaml:"mode"`
	Reference float64 `mapstructure:"reference" yaml:"reference"` // Hz, 0 disables the error column
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	d := pitch.DefaultSettings()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetDefault("device.name", "")
	v.SetDefault("device.sample_rate", d.SampleRate)
	v.SetDefault("device.latency", 0.0)

	v.SetDefault("analysis.buffer_size", d.BufferSize)
	v.SetDefault("analysis.capture_size", d.CaptureSize)
	v.SetDefault("analysis.magnitude_cutoff", d.MagnitudeCutoff)
	v.SetDefault("analysis.bind_cutoff", d.BindCutoff)
	v.SetDefault("analysis.harmonic_tolerance", pitch.DefaultHarmonicTolerance)
	v.SetDefault("analysis.average_length", d.AverageLength)
	v.SetDefault("analysis.transform", "gonum")

	v.SetDefault("recovery.on_underflow", RecoveryAbort)
	v.SetDefault("recovery.max_retries", 3)

	v.SetDefault("display.mode", DisplayAuto)
	v.SetDefault("display.reference", 0.0)
}

// SetupEnv makes every key overridable from the environment
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Settings returns the analyser settings of the configuration
func (c *Config) Settings() pitch.Settings {
	return pitch.Settings{
		SampleRate:      c.Device.SampleRate,
		BufferSize:      c.Analysis.BufferSize,
		CaptureSize:     c.Analysis.CaptureSize,
		MagnitudeCutoff: c.Analysis.MagnitudeCutoff,
		BindCutoff:      c.Analysis.BindCutoff,
		AverageLength:   c.Analysis.AverageLength,
	}
}

// Validate rejects values the analyser would refuse and unknown enum strings
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return err
	}

	if _, err := spectrum.Lookup(c.Analysis.Transform); err != nil {
		return fmt.Errorf("%w: analysis.transform: %v", ErrInvalidConfig, err)
	}

	switch c.Recovery.OnUnderflow {
	case RecoveryAbort, RecoveryReset:
	default:
		return fmt.Errorf("%w: recovery.on_underflow %q (want %s or %s)",
			ErrInvalidConfig, c.Recovery.OnUnderflow, RecoveryAbort, RecoveryReset)
	}
	if c.Recovery.MaxRetries < 0 {
		return fmt.Errorf("%w: recovery.max_retries %d is negative", ErrInvalidConfig, c.Recovery.MaxRetries)
	}

	switch c.Display.Mode {
	case DisplayAuto, DisplayTUI, DisplayPlain:
	default:
		return fmt.Errorf("%w: display.mode %q", ErrInvalidConfig, c.Display.Mode)
	}
	if c.Display.Reference < 0 {
		return fmt.Errorf("%w: display.reference %g is negative", ErrInvalidConfig, c.Display.Reference)
	}
	if c.Device.Latency < 0 {
		return fmt.Errorf("%w: device.latency %g is negative", ErrInvalidConfig, c.Device.Latency)
	}

	return nil
}
