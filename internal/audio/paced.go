package audio

import "time"

// PacedSource throttles a source that never blocks, such as a SynthSource,
// to the rate a capture device would deliver at
type PacedSource struct {
	Source

	start  time.Time
	frames int64

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacedSource wraps src
func NewPacedSource(src Source) *PacedSource {
	return &PacedSource{
		Source: src,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// ReadFrames reads from the wrapped source and waits until the frames read
// so far are due
func (p *PacedSource) ReadFrames(dst []float64) (int, error) {
	n, err := p.Source.ReadFrames(dst)

	rate := p.Source.SampleRate()
	if rate <= 0 {
		return n, err
	}

	if p.start.IsZero() {
		p.start = p.now()
	}
	p.frames += int64(n)

	due := p.start.Add(time.Duration(p.frames) * time.Second / time.Duration(rate))
	if wait := due.Sub(p.now()); wait > 0 {
		p.sleep(wait)
	}

	return n, err
}
