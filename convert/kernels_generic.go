package convert

import (
	"github.com/tve/sdrstream/cpucap"
	"github.com/tve/sdrstream/sampfmt"
)

// init registers every conversion spec.md §4.2's kernel table names, at
// cpucap.Generic rank. Arch-specific files register higher-ranked
// variants of the same conversions under the same keys; GetTransform
// picks whichever the running host qualifies for.
func init() {
	// Single-stream real/complex scalar conversions. A complex format's
	// kernel is the same byte-level transform as its real counterpart
	// since I and Q are just two interleaved components of the same
	// width; spec.md §4.2 calls this out explicitly for the i16/f32 and
	// i12 families.
	reg1 := func(src, dst sampfmt.Format, fn KernelFunc) {
		Register(src, dst, 1, 1, cpucap.Generic, fn)
	}

	reg1(sampfmt.I8, sampfmt.F32, i8ToF32)
	reg1(sampfmt.CI8, sampfmt.CF32, i8ToF32)
	reg1(sampfmt.F32, sampfmt.I8, f32ToI8)
	reg1(sampfmt.CF32, sampfmt.CI8, f32ToI8)

	reg1(sampfmt.I16, sampfmt.F32, i16ToF32)
	reg1(sampfmt.CI16, sampfmt.CF32, i16ToF32)
	reg1(sampfmt.F32, sampfmt.I16, f32ToI16)
	reg1(sampfmt.CF32, sampfmt.CI16, f32ToI16)

	reg1(sampfmt.I12, sampfmt.I16, i12ToI16)
	reg1(sampfmt.CI12, sampfmt.CI16, i12ToI16)
	reg1(sampfmt.I16, sampfmt.I12, i16ToI12)
	reg1(sampfmt.CI16, sampfmt.CI12, i16ToI12)

	reg1(sampfmt.I12, sampfmt.F32, i12ToF32)
	reg1(sampfmt.CI12, sampfmt.CF32, i12ToF32)
	reg1(sampfmt.F32, sampfmt.I12, f32ToI12)
	reg1(sampfmt.CF32, sampfmt.CI12, f32ToI12)

	// Fan-out/fan-in families: one interleaved wire stream split into
	// (or joined from) 2 or 4 logical channel buffers, with an optional
	// sample-format conversion applied per item (spec.md §4.2's demux
	// family), selected by the numIn/numOut passed to GetTransform.
	const (
		ci8Item  = 2
		ci12Item = 3 // one complex sample's I and Q packed into 3 bytes
		ci16Item = 4
		cf32Item = 8
	)

	for _, n := range []int{2, 4} {
		Register(sampfmt.CI16, sampfmt.CI16, 1, n, cpucap.Generic, relayoutDemuxN(n, ci16Item))
		Register(sampfmt.CI16, sampfmt.CI16, n, 1, cpucap.Generic, relayoutMuxN(n, ci16Item))

		Register(sampfmt.CI12, sampfmt.CI16, 1, n, cpucap.Generic, demuxN(n, ci12Item, ci16Item, asItem(i12ToI16)))
		Register(sampfmt.CI16, sampfmt.CI12, n, 1, cpucap.Generic, muxN(n, ci16Item, ci12Item, asItem(i16ToI12)))

		Register(sampfmt.CI16, sampfmt.CF32, 1, n, cpucap.Generic, demuxN(n, ci16Item, cf32Item, asItem(i16ToF32)))
		Register(sampfmt.CF32, sampfmt.CI16, n, 1, cpucap.Generic, muxN(n, cf32Item, ci16Item, asItem(f32ToI16)))

		Register(sampfmt.CF32, sampfmt.CF32, 1, n, cpucap.Generic, relayoutDemuxN(n, cf32Item))
		Register(sampfmt.CF32, sampfmt.CF32, n, 1, cpucap.Generic, relayoutMuxN(n, cf32Item))

		Register(sampfmt.CI8, sampfmt.CF32, 1, n, cpucap.Generic, demuxN(n, ci8Item, cf32Item, asItem(i8ToF32)))
		Register(sampfmt.CF32, sampfmt.CI8, n, 1, cpucap.Generic, muxN(n, cf32Item, ci8Item, asItem(f32ToI8)))
	}
}
