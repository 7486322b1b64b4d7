// Package rtsa implements the real-time spectrum analyzer persistence
// accumulator (spec.md §4.9): a per-bin vertical histogram of charge
// cells that charges toward the current spectrum's bucket and decays
// elsewhere on every frame.
package rtsa

// MaxCharge is the saturating ceiling of a histogram cell.
const MaxCharge = 0xFFFF

// Accumulator holds one histogram per FFT bin, each with Depth cells.
type Accumulator struct {
	Bins  int
	Depth int

	Lower, Upper float64 // dB range the histogram covers
	DivsPerDB    float64
	Decay        uint16 // divisor applied to every non-charged cell
	Raise        float64
	Averaging    float64

	cells []uint16 // Bins*Depth, row-major by bin
}

// New allocates an accumulator for the given bin count, cell depth and
// dB range.
func New(bins, depth int, lower, upper float64, divsPerDB float64, decay uint16, raise, averaging float64) *Accumulator {
	return &Accumulator{
		Bins: bins, Depth: depth,
		Lower: lower, Upper: upper,
		DivsPerDB: divsPerDB,
		Decay:     decay,
		Raise:     raise,
		Averaging: averaging,
		cells:     make([]uint16, bins*depth),
	}
}

// Cell returns the charge of bin b's cell c, for tests and rendering.
func (a *Accumulator) Cell(b, c int) uint16 { return a.cells[b*a.Depth+c] }

// Feed integrates one spectrum frame, already expressed in dB per bin
// (spec.md §4.9 step 1's polynomial-log2 dB conversion happens
// upstream in dsp/fft; this package only consumes the result).
func (a *Accumulator) Feed(powerDB []float64) {
	n := len(powerDB)
	if n > a.Bins {
		n = a.Bins
	}
	for bin := 0; bin < n; bin++ {
		pwr := powerDB[bin]
		switch {
		case pwr > a.Upper:
			pwr = a.Upper
		case pwr < a.Lower:
			pwr = a.Lower
		}
		bucket := int((a.Upper - pwr) * a.DivsPerDB)
		if bucket < 0 {
			bucket = 0
		}
		if bucket >= a.Depth {
			bucket = a.Depth - 1
		}

		row := a.cells[bin*a.Depth : bin*a.Depth+a.Depth]
		for c := range row {
			if c == bucket {
				row[c] = charge(row[c], a.Raise*a.Averaging)
			} else {
				row[c] = decay(row[c], a.Decay)
			}
		}
	}
}

// charge raises cell by a fraction of (MAX - cell), proportional to
// amount, clamped to MaxCharge (spec.md §4.9 step 3).
func charge(cell uint16, amount float64) uint16 {
	if amount <= 0 {
		return cell
	}
	delta := (float64(MaxCharge) - float64(cell)) * clamp01(amount)
	v := float64(cell) + delta
	if v > MaxCharge {
		return MaxCharge
	}
	return uint16(v)
}

// decay divides cell by decay, floor-saturating at 0 (spec.md §4.9
// step 4).
func decay(cell uint16, decayBy uint16) uint16 {
	if decayBy == 0 {
		return cell
	}
	return cell / decayBy
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
