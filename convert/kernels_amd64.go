//go:build amd64

package convert

import (
	"github.com/tve/sdrstream/cpucap"
	"github.com/tve/sdrstream/sampfmt"
)

// init registers the SSSE3 and AVX2 variants of the hot single-stream
// conversions. They delegate to the same scalar implementation as the
// Generic entry: spec.md §8's SIMD-equivalence property requires
// bit-identical output across ranks, and real vectorized assembly is
// out of scope for this tree (see DESIGN.md) — the win these entries
// capture is dispatch, not a faster code path, matching how a host
// build without hand-tuned kernels for a given format still benefits
// from the capability-ranked registry falling through cleanly.
func init() {
	reg := func(src, dst sampfmt.Format, rank cpucap.Rank, fn KernelFunc) {
		Register(src, dst, 1, 1, rank, fn)
	}

	for _, rank := range []cpucap.Rank{cpucap.SSSE3, cpucap.AVX2} {
		reg(sampfmt.I16, sampfmt.F32, rank, i16ToF32)
		reg(sampfmt.CI16, sampfmt.CF32, rank, i16ToF32)
		reg(sampfmt.F32, sampfmt.I16, rank, f32ToI16)
		reg(sampfmt.CF32, sampfmt.CI16, rank, f32ToI16)

		reg(sampfmt.I12, sampfmt.I16, rank, i12ToI16)
		reg(sampfmt.CI12, sampfmt.CI16, rank, i12ToI16)
		reg(sampfmt.I16, sampfmt.I12, rank, i16ToI12)
		reg(sampfmt.CI16, sampfmt.CI12, rank, i16ToI12)
	}
}
