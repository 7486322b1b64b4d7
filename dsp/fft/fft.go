// Package fft implements the split-precision mantissa/exponent log2
// power accumulator (spec.md §4.8), grounded on original_source's
// accumulate/renormalize loop in rtsa_functions.c (see DESIGN.md). There
// is a single generic implementation and no per-rank dispatch. The
// accumulator itself holds no FFT kernel; it only integrates an
// already-computed complex spectrum.
package fft

import "math"

// noiseFloor is the small positive constant substituted for any bin
// power below it, so log2 never sees zero.
const noiseFloor = 0.001

// Accumulator holds one bin's running (mantissa, exponent) pair per
// frequency bin. Re-normalizing on every Add keeps mantissa in [0.5, 2)
// so no precision is lost across a long integration.
type Accumulator struct {
	size     int
	mantissa []float64
	exponent []int32
}

// Init zeroes the accumulator and sets every bin to the noise floor.
func Init(size int) *Accumulator {
	a := &Accumulator{
		size:     size,
		mantissa: make([]float64, size),
		exponent: make([]int32, size),
	}
	frac, exp := math.Frexp(noiseFloor)
	for i := range a.mantissa {
		a.mantissa[i] = frac
		a.exponent[i] = int32(exp)
	}
	return a
}

// Add integrates one complex spectrum frame (spec.md §4.8's add).
// spectrum holds interleaved (re, im) pairs, one per bin.
func (a *Accumulator) Add(spectrum []complex128) {
	n := len(spectrum)
	if n > a.size {
		n = a.size
	}
	for i := 0; i < n; i++ {
		re, im := real(spectrum[i]), imag(spectrum[i])
		p := re*re + im*im
		if p < noiseFloor {
			p = noiseFloor
		}
		a.mantissa[i] += p * math.Ldexp(1, int(-a.exponent[i]))
		a.renormalize(i)
	}
}

// renormalize keeps mantissa[i] in [0.5, 2), branchy here (the Go
// generic path); a vectorized implementation would do this with a
// predicated shift instead of the loop below.
func (a *Accumulator) renormalize(i int) {
	for a.mantissa[i] >= 2 {
		a.mantissa[i] /= 2
		a.exponent[i]++
	}
	for a.mantissa[i] > 0 && a.mantissa[i] < 0.5 {
		a.mantissa[i] *= 2
		a.exponent[i]--
	}
}

// Norm implements spec.md §4.8's norm: out[i] = scale*log2(mantissa[i])
// + scale*exponent[i] + correction, using log2Poly3 for log2.
func (a *Accumulator) Norm(scale, correction float64, out []float64) {
	n := len(out)
	if n > a.size {
		n = a.size
	}
	for i := 0; i < n; i++ {
		out[i] = scale*log2Poly3(a.mantissa[i]) + scale*float64(a.exponent[i]) + correction
	}
}

// log2Poly3 approximates log2(x) for x > 0: the binary exponent is
// split off with math.Frexp and a degree-3 least-squares polynomial is
// evaluated on the remaining mantissa in [1, 2) (absolute error about
// 1.4e-3).
func log2Poly3(x float64) float64 {
	m, e := math.Frexp(x) // x = m * 2^e, m in [0.5, 1)
	m *= 2
	e--
	const (
		c0 = -2.133824
		c1 = 3.010744
		c2 = -1.029500
		c3 = 0.153915
	)
	return float64(e) + c0 + m*(c1+m*(c2+m*c3))
}
