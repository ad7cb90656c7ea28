package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Print the tones found in a WAV file",
	Long: `Run the analysis over a WAV file and print every frame as text.

The sample rate is taken from the file and multichannel audio is mixed down
to mono. The run ends cleanly when the file has no full capture left.`,
	Example: `  tunescope analyze recording.wav
  tunescope analyze --reference 110 --capture-size 256 a2.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, config.DisplayPlain)
	if err != nil {
		return err
	}
	defer logger.Sync()

	source, err := audio.OpenWavSource(args[0])
	if err != nil {
		logger.Error("open wav file", zap.String("path", args[0]), zap.Error(err))
		return err
	}

	settings := cfg.Settings()
	settings.SampleRate = source.SampleRate()

	analyser, err := newAnalyser(cfg, settings, source)
	if err != nil {
		logger.Error("create analyser", zap.Error(err))
		return err
	}
	defer analyser.Close()

	logger.Info("analysis started",
		zap.String("path", args[0]),
		zap.Int("sample_rate", settings.SampleRate),
		zap.Int("channels", source.Channels()),
		zap.Int("buffer_size", settings.BufferSize),
		zap.Int("capture_size", settings.CaptureSize),
		zap.String("transform", cfg.Analysis.Transform))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := sessionOptions(cfg)
	opts.StopAtEOF = true
	return runPlain(ctx, analyser, cfg, opts, logger, os.Stdout)
}
