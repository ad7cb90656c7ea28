package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/config"
	"github.com/0xlemi/tunescope/internal/logging"
	"github.com/0xlemi/tunescope/internal/pitch"
	"github.com/0xlemi/tunescope/internal/session"
	"github.com/0xlemi/tunescope/internal/spectrum"
	"github.com/0xlemi/tunescope/internal/ui"
)

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveDisplay turns display mode auto into tui or plain
func resolveDisplay(mode string, out *os.File) string {
	if mode != config.DisplayAuto {
		return mode
	}
	if isTerminal(out) {
		return config.DisplayTUI
	}
	return config.DisplayPlain
}

// newLogger builds the logger for a display mode
func newLogger(cfg *config.Config, mode string) (*zap.Logger, error) {
	if mode == config.DisplayTUI {
		return logging.ForTerminal(cfg.LogLevel, cfg.LogFile)
	}
	return logging.New(cfg.LogLevel, cfg.LogFile)
}

// newAnalyser builds the engine over source, closing source on failure
func newAnalyser(cfg *config.Config, settings pitch.Settings, source audio.Source) (*pitch.Analyser, error) {
	planner, err := spectrum.Lookup(cfg.Analysis.Transform)
	if err != nil {
		source.Close()
		return nil, err
	}

	analyser, err := pitch.NewAnalyser(source, planner, settings)
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("create analyser: %w", err)
	}
	return analyser, nil
}

func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		OnUnderflow:   cfg.Recovery.OnUnderflow,
		MaxRetries:    cfg.Recovery.MaxRetries,
		LevelInterval: session.DefaultLevelInterval,
	}
}

// runPlain prints every frame to out until ctx is done or the session fails
func runPlain(ctx context.Context, analyser *pitch.Analyser, cfg *config.Config, opts session.Options, logger *zap.Logger, out *os.File) error {
	printer := ui.NewPrinter(out, cfg.Analysis.HarmonicTolerance, cfg.Display.Reference)
	if isTerminal(out) {
		printer.WithColor()
	}

	opts.Level = func(rms, db float64) {
		logger.Debug("input level", zap.Float64("rms", rms), zap.Float64("db", db))
	}

	runner := session.New(analyser, printer, opts, logger)
	err := runner.Run(ctx)

	summary := runner.Summary()
	logger.Info("session finished",
		zap.Int("steps", summary.Steps),
		zap.Int("recoveries", summary.Recoveries))

	if err != nil {
		return err
	}
	return printer.Err()
}

// runTUI shows the full screen tuner while the session runs in the background
func runTUI(ctx context.Context, analyser *pitch.Analyser, cfg *config.Config, opts session.Options, logger *zap.Logger, info ui.Info) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewModel(info), tea.WithAltScreen())

	observer := ui.NewObserver(cfg.Analysis.HarmonicTolerance, func(f ui.FrameMsg) {
		p.Send(f)
	})
	opts.Level = func(rms, db float64) {
		p.Send(ui.LevelMsg{RMS: rms, DB: db})
	}

	runner := session.New(analyser, observer, opts, logger)
	done := make(chan error, 1)
	go func() {
		err := runner.Run(ctx)
		if err != nil {
			p.Send(ui.ErrMsg{Err: err})
		}
		done <- err
	}()

	// Signals end the program as well as the session
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, uiErr := p.Run()
	cancel()

	// The session notices cancellation once the current capture returns
	err := <-done
	logger.Info("session finished",
		zap.Int("steps", runner.Summary().Steps),
		zap.Int("recoveries", runner.Summary().Recoveries))

	if uiErr != nil {
		return fmt.Errorf("run display: %w", uiErr)
	}
	return err
}
