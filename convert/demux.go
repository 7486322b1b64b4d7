package convert

// itemFunc converts a single fixed-size item (one complex or real
// sample, in whatever byte width its format uses) from in to out.
type itemFunc func(in, out []byte)

// asItem adapts a whole-buffer KernelFunc into a single-item itemFunc,
// letting the fan-out kernels below reuse the scalar conversions in
// kernels_core.go one item at a time instead of duplicating them.
func asItem(fn KernelFunc) itemFunc {
	return func(in, out []byte) {
		fn([][]byte{in}, [][]byte{out})
	}
}

// demuxN returns a KernelFunc that reads one interleaved input stream
// (round-robin across n logical channels, inItemSize bytes per item)
// and writes n separate per-channel output streams, converting each
// item with conv. This realizes spec.md §4.2's "single wire stream,
// split by the demux grammar" family (e.g. ci12 -> 4x ci16).
func demuxN(n, inItemSize, outItemSize int, conv itemFunc) KernelFunc {
	return func(inputs, outputs [][]byte) {
		in := inputs[0]
		items := len(in) / inItemSize
		groups := items / n
		for ch := 0; ch < n && ch < len(outputs); ch++ {
			maxGroups := len(outputs[ch]) / outItemSize
			g := groups
			if maxGroups < g {
				g = maxGroups
			}
			for i := 0; i < g; i++ {
				idx := i*n + ch
				inOff := idx * inItemSize
				outOff := i * outItemSize
				conv(in[inOff:inOff+inItemSize], outputs[ch][outOff:outOff+outItemSize])
			}
		}
	}
}

// muxN is the inverse of demuxN: it interleaves n per-channel input
// streams into one output stream, converting each item with conv.
func muxN(n, inItemSize, outItemSize int, conv itemFunc) KernelFunc {
	return func(inputs, outputs [][]byte) {
		out := outputs[0]
		groups := -1
		for ch := 0; ch < n; ch++ {
			items := len(inputs[ch]) / inItemSize
			if groups == -1 || items < groups {
				groups = items
			}
		}
		if groups < 0 {
			groups = 0
		}
		if maxGroups := len(out) / outItemSize / n; maxGroups < groups {
			groups = maxGroups
		}
		for g := 0; g < groups; g++ {
			for ch := 0; ch < n; ch++ {
				idx := g*n + ch
				inOff := g * inItemSize
				outOff := idx * outItemSize
				conv(inputs[ch][inOff:inOff+inItemSize], out[outOff:outOff+outItemSize])
			}
		}
	}
}

// relayoutDemuxN reshuffles a single interleaved buffer of n channels
// into n separate buffers (relayoutMuxN goes back) without any sample
// conversion — spec.md
// §4.2's "zero cost" ci16<->4x ci16 family, where item size is
// unchanged on both sides.
func relayoutDemuxN(n, itemSize int) KernelFunc {
	return demuxN(n, itemSize, itemSize, identityItem)
}

func relayoutMuxN(n, itemSize int) KernelFunc {
	return muxN(n, itemSize, itemSize, identityItem)
}

func identityItem(in, out []byte) {
	copy(out, in)
}
