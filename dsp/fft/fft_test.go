package fft

import (
	"math"
	"testing"
)

func TestNormOfInitMatchesNoiseFloor(t *testing.T) {
	a := Init(4)
	out := make([]float64, 4)
	a.Norm(1, 0, out)

	want := math.Log2(noiseFloor)
	for i, v := range out {
		if math.Abs(v-want) > 0.05 {
			t.Errorf("bin %d: norm(init) = %v, want approximately %v", i, v, want)
		}
	}
}

func TestNormIsDeterministic(t *testing.T) {
	a := Init(4)
	a.Add([]complex128{1 + 1i, 2 + 0i, 0, 0.1 + 0.1i})

	out1 := make([]float64, 4)
	out2 := make([]float64, 4)
	a.Norm(1, 0, out1)
	a.Norm(1, 0, out2)
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Errorf("bin %d: repeated Norm calls diverged: %v vs %v", i, out1[i], out2[i])
		}
	}
}

func TestMantissaStaysNormalized(t *testing.T) {
	a := Init(1)
	for i := 0; i < 1000; i++ {
		a.Add([]complex128{10 + 10i})
	}
	if a.mantissa[0] < 0.5 || a.mantissa[0] >= 2 {
		t.Errorf("mantissa drifted out of [0.5, 2): %v", a.mantissa[0])
	}
}
