package cpucap

import "testing"

func TestGetIsCached(t *testing.T) {
	a := Get()
	b := Get()
	if a != b {
		t.Fatalf("Get() returned different ranks across calls: %v then %v", a, b)
	}
}

func TestAlign(t *testing.T) {
	cases := []struct {
		r    Rank
		want int
	}{
		{Generic, 8},
		{SSE2, 16},
		{SSSE3, 16},
		{SSE4, 16},
		{NEON, 16},
		{AVX, 32},
		{AVX2, 32},
	}
	for _, c := range cases {
		if got := Align(c.r); got != c.want {
			t.Errorf("Align(%v) = %d, want %d", c.r, got, c.want)
		}
	}
}
