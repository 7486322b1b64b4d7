// Package convert implements the sample-format conversion kernels
// (spec.md §4.2) and their runtime dispatch by host CPU capability
// (spec.md §4.1). Kernels are registered per (source format, destination
// format, fan-in, fan-out) key at package init time; GetTransform picks
// the best-ranked implementation the running host can execute.
package convert

import (
	"sync"

	"github.com/tve/sdrstream/cpucap"
	"github.com/tve/sdrstream/sampfmt"
)

// KernelFunc converts one or more input buffers into one or more output
// buffers. Implementations must tolerate a short trailing buffer (the
// scalar tail) by simply not writing past it.
type KernelFunc func(inputs, outputs [][]byte)

type key struct {
	Src, Dst      sampfmt.Format
	NumIn, NumOut int
}

type entry struct {
	rank cpucap.Rank
	fn   KernelFunc
}

var (
	mu       sync.RWMutex
	registry = map[key][]entry{}
)

// Register adds a kernel implementation for the given conversion at the
// given capability rank. Multiple ranks may be registered for the same
// key; GetTransform picks the highest rank the host supports.
func Register(src, dst sampfmt.Format, numIn, numOut int, rank cpucap.Rank, fn KernelFunc) {
	mu.Lock()
	defer mu.Unlock()
	k := key{src, dst, numIn, numOut}
	registry[k] = append(registry[k], entry{rank, fn})
}

// Transform is a resolved, ready-to-call conversion: a kernel bound to a
// specific rank, returned by GetTransform.
type Transform struct {
	Src, Dst sampfmt.Format
	NumIn    int
	NumOut   int
	Rank     cpucap.Rank
	fn       KernelFunc
}

// Convert runs the resolved kernel over inputs/outputs.
func (t *Transform) Convert(inputs, outputs [][]byte) {
	t.fn(inputs, outputs)
}

// GetTransform returns the best-ranked registered kernel for converting
// numIn buffers of src into numOut buffers of dst that the host can run,
// per spec.md §4.1's capability ranking (Generic < SSE2 < SSSE3 < SSE4
// < AVX < AVX2 < NEON, NEON and the x86 ranks mutually exclusive by
// arch). If no specialization matches, spec.md §4.2 mandates falling
// back to an identity copy with out_bytes = in_bytes per stream, so this
// never fails: an unsupported pair degrades to a passthrough rather
// than an error.
func GetTransform(src, dst sampfmt.Format, numIn, numOut int) (*Transform, error) {
	host := cpucap.Get()
	mu.RLock()
	entries := registry[key{src, dst, numIn, numOut}]
	mu.RUnlock()

	var best *entry
	for i := range entries {
		e := &entries[i]
		if e.rank > host {
			continue
		}
		if best == nil || e.rank > best.rank {
			best = e
		}
	}
	if best != nil {
		return &Transform{Src: src, Dst: dst, NumIn: numIn, NumOut: numOut, Rank: best.rank, fn: best.fn}, nil
	}
	return &Transform{Src: src, Dst: dst, NumIn: numIn, NumOut: numOut, Rank: cpucap.Generic, fn: identityCopy}, nil
}
