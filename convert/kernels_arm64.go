//go:build arm64

package convert

import (
	"github.com/tve/sdrstream/cpucap"
	"github.com/tve/sdrstream/sampfmt"
)

// init registers the NEON variants of the hot single-stream
// conversions, for the same reason kernels_amd64.go registers SSSE3/AVX2
// variants: the registry needs an entry at that rank for hosts that
// report it, even though the implementation underneath is the shared
// scalar one.
func init() {
	reg := func(src, dst sampfmt.Format, fn KernelFunc) {
		Register(src, dst, 1, 1, cpucap.NEON, fn)
	}

	reg(sampfmt.I16, sampfmt.F32, i16ToF32)
	reg(sampfmt.CI16, sampfmt.CF32, i16ToF32)
	reg(sampfmt.F32, sampfmt.I16, f32ToI16)
	reg(sampfmt.CF32, sampfmt.CI16, f32ToI16)

	reg(sampfmt.I12, sampfmt.I16, i12ToI16)
	reg(sampfmt.CI12, sampfmt.CI16, i12ToI16)
	reg(sampfmt.I16, sampfmt.I12, i16ToI12)
	reg(sampfmt.CI16, sampfmt.CI12, i16ToI12)
}
