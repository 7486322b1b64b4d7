// Package cpucap probes the host's SIMD capability once and caches the
// result (spec.md §4.1). Detection on x86 uses golang.org/x/sys/cpu's
// compiler-assisted runtime feature flags; on arm64 the NEON rank comes
// from the same package's cpu.ARM64.HasASIMD flag. This
// mirrors how msiner-sdrplay-go (an SDR-domain sibling) leans on
// golang.org/x/sys for host introspection rather than hand-rolling
// CPUID parsing.
package cpucap

import (
	"sync"
)

// Rank orders SIMD capability from least to most capable, exactly as
// spec.md §2 lists it: Generic < SSE2 < SSSE3 < SSE4 < AVX < AVX2 <
// NEON.
type Rank int

const (
	Generic Rank = iota
	SSE2
	SSSE3
	SSE4
	AVX
	AVX2
	NEON
)

func (r Rank) String() string {
	switch r {
	case Generic:
		return "generic"
	case SSE2:
		return "sse2"
	case SSSE3:
		return "ssse3"
	case SSE4:
		return "sse4"
	case AVX:
		return "avx"
	case AVX2:
		return "avx2"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

var (
	once   sync.Once
	cached Rank
)

// Get returns the highest SIMD rank the host supports, detecting and
// caching it on first call. The cached value never changes afterward:
// spec.md §5 requires the CPU-capability word to be write-once.
func Get() Rank {
	once.Do(func() {
		cached = detect()
	})
	return cached
}

// Align returns the byte alignment required by the widest vector a
// given rank supports: 8 for Generic, 16 for SSE/NEON, 32 for AVX/AVX2.
func Align(r Rank) int {
	switch r {
	case AVX, AVX2:
		return 32
	case SSE2, SSSE3, SSE4, NEON:
		return 16
	default:
		return 8
	}
}

func detect() Rank {
	return archDetect()
}
