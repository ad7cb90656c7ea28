package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/config"
	"github.com/0xlemi/tunescope/internal/pitch"
)

// scriptedStepper returns the scripted errors in order, then cancels
type scriptedStepper struct {
	script []error
	steps  int
	resets int
	cancel context.CancelFunc
}

func (s *scriptedStepper) Step(obs pitch.Observer) error {
	if s.steps >= len(s.script) {
		s.cancel()
		return nil
	}
	err := s.script[s.steps]
	s.steps++
	if err == nil && obs != nil {
		obs.Start()
		obs.Add(440, 0.5)
		obs.End()
	}
	return err
}

func (s *scriptedStepper) Reset() {
	s.resets++
}

func (s *scriptedStepper) Samples() []float64 {
	return []float64{0.5, -0.5, 0.5, -0.5}
}

type countingObserver struct {
	frames int
}

func (c *countingObserver) Start()           {}
func (c *countingObserver) Add(_, _ float64) {}
func (c *countingObserver) End()             { c.frames++ }

func underflow(got int) error {
	return &audio.UnderflowError{Expected: 512, Got: got}
}

func newStepper(script ...error) (*scriptedStepper, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	return &scriptedStepper{script: script, cancel: cancel}, ctx
}

func TestRunUntilCancelled(t *testing.T) {
	stepper, ctx := newStepper(nil, nil, nil)
	obs := &countingObserver{}

	r := New(stepper, obs, Options{}, nil)
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, 4, r.Summary().Steps, "the cancelling step still counts")
	assert.Equal(t, 3, obs.frames)
}

func TestRunAbortsOnUnderflow(t *testing.T) {
	stepper, ctx := newStepper(nil, underflow(100), nil)

	r := New(stepper, nil, Options{OnUnderflow: config.RecoveryAbort, MaxRetries: 3}, nil)
	err := r.Run(ctx)

	var u *audio.UnderflowError
	require.ErrorAs(t, err, &u)
	assert.Equal(t, 100, u.Got)
	assert.Zero(t, stepper.resets)
	assert.Equal(t, 1, r.Summary().Steps)
}

func TestRunResetsOnUnderflow(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	stepper, ctx := newStepper(nil, underflow(0), underflow(10), nil, underflow(0), nil)

	r := New(stepper, nil, Options{OnUnderflow: config.RecoveryReset, MaxRetries: 2}, zap.New(core))
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, 3, stepper.resets)
	assert.Equal(t, 3, r.Summary().Recoveries)
	assert.Equal(t, 4, r.Summary().Steps)

	entries := logs.FilterMessage("capture underflow, resetting analyser").All()
	require.Len(t, entries, 3)
	assert.Equal(t, int64(2), entries[1].ContextMap()["retry"])
	assert.Equal(t, int64(1), entries[2].ContextMap()["retry"], "a good step clears the retry count")
}

func TestRunGivesUpAfterMaxRetries(t *testing.T) {
	stepper, ctx := newStepper(underflow(0), underflow(0), underflow(0))

	r := New(stepper, nil, Options{OnUnderflow: config.RecoveryReset, MaxRetries: 2}, nil)
	err := r.Run(ctx)

	var u *audio.UnderflowError
	require.ErrorAs(t, err, &u)
	assert.Equal(t, 2, stepper.resets)
}

func TestRunStopsAtEOF(t *testing.T) {
	eof := &audio.UnderflowError{Expected: 512, Got: 37, Err: io.EOF}

	stepper, ctx := newStepper(nil, nil, eof)
	r := New(stepper, nil, Options{StopAtEOF: true}, nil)
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, 2, r.Summary().Steps)

	stepper, ctx = newStepper(nil, eof)
	r = New(stepper, nil, Options{}, nil)
	assert.ErrorIs(t, r.Run(ctx), io.EOF)
}

func TestRunReturnsOtherErrors(t *testing.T) {
	boom := errors.New("transform failed")
	stepper, ctx := newStepper(nil, fmt.Errorf("execute transform: %w", boom))

	r := New(stepper, nil, Options{OnUnderflow: config.RecoveryReset, MaxRetries: 5}, nil)
	assert.ErrorIs(t, r.Run(ctx), boom)
	assert.Zero(t, stepper.resets)
}

func TestRunReportsLevel(t *testing.T) {
	stepper, ctx := newStepper(nil, nil, nil)

	var levels []float64
	opts := Options{
		Level: func(rms, db float64) {
			levels = append(levels, rms)
		},
	}
	r := New(stepper, nil, opts, nil)
	require.NoError(t, r.Run(ctx))

	require.Len(t, levels, 4)
	assert.InDelta(t, 0.5, levels[0], 1e-12)
}

func TestRunCancelledBeforeStart(t *testing.T) {
	stepper, ctx := newStepper(nil)
	stepper.cancel()

	r := New(stepper, nil, Options{}, nil)
	require.NoError(t, r.Run(ctx))
	assert.Zero(t, stepper.steps)
}
