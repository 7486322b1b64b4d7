package cpucap

import "golang.org/x/sys/cpu"

func archDetect() Rank {
	if cpu.ARM64.HasASIMD {
		return NEON
	}
	return Generic
}
