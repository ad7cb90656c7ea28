package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xlemi/tunescope/internal/pitch"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 48000, cfg.Device.SampleRate)
	assert.Equal(t, 2048, cfg.Analysis.BufferSize)
	assert.Equal(t, 512, cfg.Analysis.CaptureSize)
	assert.Equal(t, -30.0, cfg.Analysis.MagnitudeCutoff)
	assert.Equal(t, -2.0, cfg.Analysis.BindCutoff)
	assert.Equal(t, -9.0, cfg.Analysis.HarmonicTolerance)
	assert.Equal(t, 32, cfg.Analysis.AverageLength)
	assert.Equal(t, "gonum", cfg.Analysis.Transform)
	assert.Equal(t, RecoveryAbort, cfg.Recovery.OnUnderflow)
	assert.Equal(t, DisplayAuto, cfg.Display.Mode)

	assert.Equal(t, pitch.DefaultSettings(), cfg.Settings())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunescope.yaml")
	content := `
log_level: debug
device:
  sample_rate: 44100
analysis:
  buffer_size: 4096
  capture_size: 1024
  magnitude_cutoff: -40
  transform: godsp
recovery:
  on_underflow: reset
  max_retries: 5
display:
  mode: plain
  reference: 110
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 44100, cfg.Device.SampleRate)
	assert.Equal(t, 4096, cfg.Analysis.BufferSize)
	assert.Equal(t, 1024, cfg.Analysis.CaptureSize)
	assert.Equal(t, -40.0, cfg.Analysis.MagnitudeCutoff)
	assert.Equal(t, -2.0, cfg.Analysis.BindCutoff, "unset keys keep their defaults")
	assert.Equal(t, "godsp", cfg.Analysis.Transform)
	assert.Equal(t, RecoveryReset, cfg.Recovery.OnUnderflow)
	assert.Equal(t, 5, cfg.Recovery.MaxRetries)
	assert.Equal(t, DisplayPlain, cfg.Display.Mode)
	assert.Equal(t, 110.0, cfg.Display.Reference)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TUNESCOPE_ANALYSIS_CAPTURE_SIZE", "256")
	t.Setenv("TUNESCOPE_DISPLAY_MODE", "tui")

	v := newViper()
	SetupEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Analysis.CaptureSize)
	assert.Equal(t, DisplayTUI, cfg.Display.Mode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{"capture exceeds buffer", "analysis.capture_size", 4096, pitch.ErrInvalidConfiguration},
		{"zero rate", "device.sample_rate", 0, pitch.ErrInvalidConfiguration},
		{"unknown transform", "analysis.transform", "fftw", ErrInvalidConfig},
		{"unknown recovery", "recovery.on_underflow", "ignore", ErrInvalidConfig},
		{"negative retries", "recovery.max_retries", -1, ErrInvalidConfig},
		{"unknown display", "display.mode", "html", ErrInvalidConfig},
		{"negative reference", "display.reference", -1.0, ErrInvalidConfig},
		{"negative latency", "device.latency", -0.5, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
