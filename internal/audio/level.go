package audio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SilenceDB is reported for a buffer with no measurable energy
const SilenceDB = -100.0

// Level calculates the RMS and dB level of a buffer
func Level(samples []float64) (rms, db float64) {
	if len(samples) == 0 {
		return 0, SilenceDB
	}

	rms = floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))

	// Calculate dB (with protection against log(0))
	if rms > 0.0000001 {
		db = 20 * math.Log10(rms)
	} else {
		db = SilenceDB
	}

	return rms, db
}
