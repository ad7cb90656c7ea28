package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/config"
	"github.com/0xlemi/tunescope/internal/ui"
)

var (
	synthFrequencies []float64
	synthHarmonics   int
	amplification    float32
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Tune from a live input device",
	Long: `Capture audio from an input device and show the detected tones.

With --synth the device is replaced by generated tones, which is handy for
checking the analysis settings without an instrument.`,
	Example: `  tunescope listen
  tunescope listen --device "USB Audio" --rate 44100
  tunescope listen --synth 110 --harmonics 4 --display plain`,
	Args: cobra.NoArgs,
	RunE: runListen,
}

func init() {
	flags := listenCmd.Flags()
	flags.String("device", "", "input device name (default input device when empty)")
	flags.Int("rate", 48000, "sample rate in Hz")
	flags.Float64("latency", 0, "input latency hint in seconds (0 uses the device default)")
	flags.Float64SliceVar(&synthFrequencies, "synth", nil, "generate tones at these frequencies instead of capturing")
	flags.IntVar(&synthHarmonics, "harmonics", 1, "partials per generated tone")
	flags.Float32Var(&amplification, "amplification", 1, "input gain")

	bindFlags(viper.GetViper(), flags, map[string]string{
		"device":  "device.name",
		"rate":    "device.sample_rate",
		"latency": "device.latency",
	})

	rootCmd.AddCommand(listenCmd)
}

// openInput opens the capture device or the tone generator
func openInput(cfg *config.Config) (audio.Source, string, error) {
	if len(synthFrequencies) > 0 {
		var partials []audio.Partial
		for _, f := range synthFrequencies {
			partials = append(partials, audio.HarmonicSeries(f, max(1, synthHarmonics))...)
		}
		synth := audio.NewSynthSource(cfg.Device.SampleRate, partials...)
		return audio.NewPacedSource(synth), fmt.Sprintf("synth %v Hz", synthFrequencies), nil
	}

	source, err := audio.NewPortAudioSource(audio.PortAudioConfig{
		Device:          cfg.Device.Name,
		SampleRate:      cfg.Device.SampleRate,
		Channels:        1,
		FramesPerBuffer: cfg.Analysis.CaptureSize,
		Latency:         time.Duration(cfg.Device.Latency * float64(time.Second)),
		Amplification:   amplification,
	})
	if err != nil {
		return nil, "", err
	}
	return source, cfg.Device.Name, nil
}

func runListen(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mode := resolveDisplay(cfg.Display.Mode, os.Stdout)
	logger, err := newLogger(cfg, mode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	source, device, err := openInput(cfg)
	if err != nil {
		logger.Error("open input", zap.Error(err))
		return err
	}

	settings := cfg.Settings()
	analyser, err := newAnalyser(cfg, settings, source)
	if err != nil {
		logger.Error("create analyser", zap.Error(err))
		return err
	}
	defer analyser.Close()

	logger.Info("session started",
		zap.String("device", device),
		zap.String("display", mode),
		zap.Int("sample_rate", settings.SampleRate),
		zap.Int("buffer_size", settings.BufferSize),
		zap.Int("capture_size", settings.CaptureSize),
		zap.Float64("bin_width", settings.BinWidth()),
		zap.String("transform", cfg.Analysis.Transform))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info := ui.Info{
		Device:            device,
		Transform:         cfg.Analysis.Transform,
		Settings:          settings,
		HarmonicTolerance: cfg.Analysis.HarmonicTolerance,
	}
	if pa, ok := source.(*audio.PortAudioSource); ok {
		info.Gain = amplification
		info.SetGain = pa.SetAmplification
		defer func() {
			if n := pa.Overflows(); n > 0 {
				logger.Warn("input overflowed, frames were dropped", zap.Int("overflows", n))
			}
		}()
	}

	opts := sessionOptions(cfg)
	if mode == config.DisplayTUI {
		return runTUI(ctx, analyser, cfg, opts, logger, info)
	}
	return runPlain(ctx, analyser, cfg, opts, logger, os.Stdout)
}
