package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/0xlemi/tunescope/internal/config"
	"github.com/0xlemi/tunescope/internal/pitch"
	"github.com/0xlemi/tunescope/internal/spectrum"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tunescope",
	Short: "Console guitar tuner",
	Long: `tunescope listens to an audio input and reports the tones it hears.

Frequencies are refined beyond the transform's bin width by tracking the
phase of every bin between overlapping windows, so a 2048 sample window at
48 kHz still resolves a fraction of a Hz. Detected tones are grouped into
harmonic series and the strongest fundamental drives the tuner bar.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// flagKeys maps persistent flags to their configuration keys
var flagKeys = map[string]string{
	"log-level":          "log_level",
	"log-file":           "log_file",
	"buffer-size":        "analysis.buffer_size",
	"capture-size":       "analysis.capture_size",
	"cutoff":             "analysis.magnitude_cutoff",
	"bind-cutoff":        "analysis.bind_cutoff",
	"harmonic-tolerance": "analysis.harmonic_tolerance",
	"average-length":     "analysis.average_length",
	"transform":          "analysis.transform",
	"on-underflow":       "recovery.on_underflow",
	"max-retries":        "recovery.max_retries",
	"display":            "display.mode",
	"reference":          "display.reference",
}

func init() {
	cobra.OnInitialize(initConfig)

	d := pitch.DefaultSettings()
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/tunescope/tunescope.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	// Analysis
	flags.Int("buffer-size", d.BufferSize, "samples per transform")
	flags.Int("capture-size", d.CaptureSize, "fresh samples per step, at most the buffer size")
	flags.Float64("cutoff", d.MagnitudeCutoff, "magnitude cutoff in dB")
	flags.Float64("bind-cutoff", d.BindCutoff, "bind a neighbor within this many dB of a peak")
	flags.Float64("harmonic-tolerance", pitch.DefaultHarmonicTolerance, "harmonic tolerance in dB")
	flags.Int("average-length", d.AverageLength, "phase differences averaged per bin")
	flags.String("transform", "gonum",
		fmt.Sprintf("transform backend (%s)", strings.Join(spectrum.Backends(), ", ")))

	// Recovery and display
	flags.String("on-underflow", config.RecoveryAbort, "on a short capture: abort or reset")
	flags.Int("max-retries", 3, "consecutive resets before giving up")
	flags.String("display", config.DisplayAuto, "display mode: auto, tui or plain")
	flags.Float64("reference", 0, "reference frequency in Hz for the error column (0 disables)")

	bindFlags(viper.GetViper(), flags, flagKeys)
}

// bindFlags binds each flag to its configuration key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		v.BindPFlag(key, flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	v := viper.GetViper()

	if configFile != "" {
		// Use config file from the flag
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tunescope"))
		}
		v.AddConfigPath("/etc/tunescope")
		v.AddConfigPath("./configs")
		v.SetConfigName("tunescope")
		v.SetConfigType("yaml")
	}

	config.SetupEnv(v)
	config.SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "error: read config: %v\n", err)
			os.Exit(1)
		}
	}
}

// loadConfig decodes the effective configuration
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}
