//go:build !amd64 && !arm64

package cpucap

func archDetect() Rank {
	return Generic
}
