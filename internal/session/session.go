// Package session drives an analyser until it is cancelled or fails.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/config"
	"github.com/0xlemi/tunescope/internal/pitch"
)

// DefaultLevelInterval is how often the input level is reported
const DefaultLevelInterval = 200 * time.Millisecond

// Stepper is the part of the analyser the session drives
type Stepper interface {
	Step(obs pitch.Observer) error
	Reset()
	Samples() []float64
}

// LevelFunc receives the input level of the current window
type LevelFunc func(rms, db float64)

// Options configure a Runner
type Options struct {
	// OnUnderflow is config.RecoveryAbort or config.RecoveryReset
	OnUnderflow string

	// MaxRetries bounds consecutive resets before the underflow is returned
	MaxRetries int

	// StopAtEOF ends the session cleanly when the source runs dry
	StopAtEOF bool

	// Level is called at most every LevelInterval, nil disables it
	Level         LevelFunc
	LevelInterval time.Duration
}

// Summary describes a finished session
type Summary struct {
	Steps      int
	Recoveries int
}

// Runner repeatedly steps an analyser and applies the recovery policy
type Runner struct {
	stepper  Stepper
	observer pitch.Observer
	opts     Options
	logger   *zap.Logger
	summary  Summary
}

// New creates a runner. A nil logger discards records.
func New(stepper Stepper, observer pitch.Observer, opts Options, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OnUnderflow == "" {
		opts.OnUnderflow = config.RecoveryAbort
	}
	return &Runner{
		stepper:  stepper,
		observer: observer,
		opts:     opts,
		logger:   logger,
	}
}

// Run steps until ctx is cancelled, the source ends with StopAtEOF set, or
// an error the policy cannot recover from. Cancellation is only noticed
// between steps.
func (r *Runner) Run(ctx context.Context) error {
	retries := 0
	var lastLevel time.Time

	for {
		if ctx.Err() != nil {
			r.logger.Debug("session cancelled", zap.Int("steps", r.summary.Steps))
			return nil
		}

		err := r.stepper.Step(r.observer)
		if err == nil {
			retries = 0
			r.summary.Steps++

			if r.opts.Level != nil && time.Since(lastLevel) >= r.opts.LevelInterval {
				r.opts.Level(audio.Level(r.stepper.Samples()))
				lastLevel = time.Now()
			}
			continue
		}

		var underflow *audio.UnderflowError
		if !errors.As(err, &underflow) {
			return err
		}

		if r.opts.StopAtEOF && errors.Is(err, io.EOF) {
			r.logger.Debug("source exhausted",
				zap.Int("steps", r.summary.Steps),
				zap.Int("partial_frames", underflow.Got))
			return nil
		}

		if r.opts.OnUnderflow != config.RecoveryReset || retries >= r.opts.MaxRetries {
			return err
		}

		retries++
		r.summary.Recoveries++
		r.logger.Warn("capture underflow, resetting analyser",
			zap.Int("expected", underflow.Expected),
			zap.Int("got", underflow.Got),
			zap.Int("retry", retries),
			zap.Int("max_retries", r.opts.MaxRetries),
			zap.Error(underflow.Err))
		r.stepper.Reset()
	}
}

// Summary returns the counters of the last Run
func (r *Runner) Summary() Summary {
	return r.summary
}
