package rxfe

import "sort"

// chPattern is one of the eight recognized channel-interleaving
// patterns (spec.md §4.4 step 1, §6's chfmt). active lists the logical
// channel numbers the pattern carries; code is the 3-bit chfmt value
// written into BURST_FORMAT.
type chPattern struct {
	name   string
	code   uint8
	active []int
}

// patterns mirrors spec.md's literal list {3210, xx10, xxx0, xx1x,
// x2x0, 32xx, x2xx, 3xxx} in order, so pattern i's code is i.
var patterns = []chPattern{
	{"3210", 0, []int{0, 1, 2, 3}},
	{"xx10", 1, []int{0, 1}},
	{"xxx0", 2, []int{0}},
	{"xx1x", 3, []int{1}},
	{"x2x0", 4, []int{0, 2}},
	{"32xx", 5, []int{2, 3}},
	{"x2xx", 6, []int{2}},
	{"3xxx", 7, []int{3}},
}

// resolveChannels matches channels against the recognized patterns,
// returning the pattern's chfmt code and raw channel count. Order
// within channels does not matter for the match; spec.md §4.6 resolves
// lane assignment separately via the shuffle engine.
func resolveChannels(channels []int) (chfmt uint8, rawChannels int, ok bool) {
	want := append([]int(nil), channels...)
	sort.Ints(want)

	for _, p := range patterns {
		if intSliceEqual(p.active, want) {
			return p.code, len(p.active), true
		}
	}
	return 0, 0, false
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
