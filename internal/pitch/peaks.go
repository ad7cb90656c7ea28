package pitch

// Peak is one detected tone
type Peak struct {
	Index     int     // transform index the frequency was refined from
	Candidate int     // transform index of the local maximum
	Bound     int     // transform index of the bound neighbor, 0 when unbound
	Frequency float64 // Hz
	Magnitude float64 // normalized magnitude of the local maximum
	Hits      int     // steps the local maximum has been a peak
}

// PeakSelector finds local maxima above the magnitude cutoff and decides
// which bin's refined estimate to report for each of them.
//
// When a tone sits between two bin centres its energy leaks into the
// neighbor; if the neighbor is within BindCutoff dB of the peak the two are
// bound and their estimates reconciled.
type PeakSelector struct {
	cutoff     float64 // linear magnitude
	bindCutoff float64 // dB
	binWidth   float64 // Hz

	tracked    []bool
	candidates []int
	bound      []int
}

// NewPeakSelector creates a selector for the session settings
func NewPeakSelector(s Settings) *PeakSelector {
	n := s.BinCount()
	return &PeakSelector{
		cutoff:     DBToMagnitude(s.MagnitudeCutoff),
		bindCutoff: s.BindCutoff,
		binWidth:   s.BinWidth(),
		tracked:    make([]bool, n),
		candidates: make([]int, 0, n),
		bound:      make([]int, n),
	}
}

// Select updates every bin from frame and appends the detected peaks to dst
// in ascending bin order
func (p *PeakSelector) Select(frame *SpectralFrame, bins []FrequencyBin, dst []Peak) []Peak {
	mags := frame.Magnitudes()

	for slot := range bins {
		bins[slot].SetMagnitude(mags[slot])
		p.tracked[slot] = mags[slot] >= p.cutoff
	}

	// Find candidates and their bound neighbors
	p.candidates = p.candidates[:0]
	for slot := range bins {
		if !p.tracked[slot] || !isLocalMax(mags, slot) {
			continue
		}
		p.candidates = append(p.candidates, slot)

		p.bound[slot] = p.boundNeighbor(mags, slot)
		if p.bound[slot] >= 0 {
			p.tracked[p.bound[slot]] = true
		}
	}

	// Feed tracked bins, forget the rest
	for slot := range bins {
		if p.tracked[slot] {
			bins[slot].Update(frame.Phase(slot + 1))
		} else {
			bins[slot].Reset()
		}
	}

	for _, slot := range p.candidates {
		bins[slot].MarkLocalMax()

		chosen, ok := p.reconcile(bins, slot, p.bound[slot])
		if !ok {
			continue
		}

		freq := bins[chosen].Position() * p.binWidth
		if freq <= 0 {
			continue
		}

		peak := Peak{
			Index:     chosen + 1,
			Candidate: slot + 1,
			Frequency: freq,
			Magnitude: bins[slot].Magnitude(),
			Hits:      bins[slot].Hits(),
		}
		if p.bound[slot] >= 0 {
			peak.Bound = p.bound[slot] + 1
		}
		dst = append(dst, peak)
	}

	return dst
}

// isLocalMax compares a slot with its neighbors. The left comparison is
// strict and the right one is not, so a two-bin plateau yields one peak.
func isLocalMax(mags []float64, slot int) bool {
	if slot > 0 && mags[slot] <= mags[slot-1] {
		return false
	}
	if slot < len(mags)-1 && mags[slot] < mags[slot+1] {
		return false
	}
	return true
}

// boundNeighbor returns the slot bound to a candidate, or -1
func (p *PeakSelector) boundNeighbor(mags []float64, slot int) int {
	var neighbor int
	switch {
	case slot == 0 && len(mags) > 1:
		neighbor = 1
	case slot == len(mags)-1:
		neighbor = slot - 1
	case mags[slot-1] < mags[slot+1]:
		neighbor = slot + 1
	default:
		neighbor = slot - 1
	}

	if neighbor < 0 || mags[neighbor] <= 0 || mags[slot] <= 0 {
		return -1
	}
	if MagnitudeToDB(mags[neighbor]/mags[slot]) < p.bindCutoff {
		return -1
	}
	return neighbor
}

// reconcile picks the slot whose refined estimate gets reported
func (p *PeakSelector) reconcile(bins []FrequencyBin, slot, bound int) (int, bool) {
	own := &bins[slot]
	if bound < 0 {
		return slot, own.Ready()
	}

	other := &bins[bound]
	switch {
	case own.Ready() && other.Ready():
		// Both estimates must point at the gap between the two bins
		dir := float64(bound - slot)
		if own.Offset()*dir < 0 || other.Offset()*dir > 0 {
			return slot, true
		}
		return moreConsistent(bins, slot, bound), true
	case own.Ready():
		return slot, true
	case other.Ready():
		return bound, true
	default:
		return 0, false
	}
}

// moreConsistent prefers the bin whose offsets vary least, then the one that
// has been a peak more often, then the candidate itself
func moreConsistent(bins []FrequencyBin, slot, bound int) int {
	own, other := &bins[slot], &bins[bound]
	switch {
	case other.Variance() < own.Variance():
		return bound
	case own.Variance() < other.Variance():
		return slot
	case other.Hits() > own.Hits():
		return bound
	default:
		return slot
	}
}
