package cpucap

import "golang.org/x/sys/cpu"

func archDetect() Rank {
	switch {
	case cpu.X86.HasAVX2:
		return AVX2
	case cpu.X86.HasAVX:
		return AVX
	case cpu.X86.HasSSE41 || cpu.X86.HasSSE42:
		return SSE4
	case cpu.X86.HasSSSE3:
		return SSSE3
	case cpu.X86.HasSSE2:
		return SSE2
	default:
		return Generic
	}
}
