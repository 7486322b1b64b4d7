package convert

import (
	"math"
	"testing"

	"github.com/tve/sdrstream/sampfmt"
)

func TestI16F32RoundTrip(t *testing.T) {
	tr, err := GetTransform(sampfmt.I16, sampfmt.F32, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	back, err := GetTransform(sampfmt.F32, sampfmt.I16, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	in := []byte{0x00, 0x80, 0xff, 0x7f, 0x00, 0x00} // -32768, 32767, 0
	f := make([]byte, 12)
	tr.Convert([][]byte{in}, [][]byte{f})
	out := make([]byte, 6)
	back.Convert([][]byte{f}, [][]byte{out})

	// Check that the zero and full-scale positive samples round trip exactly.
	gotZero := int16(uint16(out[4]) | uint16(out[5])<<8)
	if gotZero != 0 {
		t.Errorf("zero sample round trip = %d, want 0", gotZero)
	}
	gotMax := int16(uint16(out[2]) | uint16(out[3])<<8)
	if gotMax != 32767 {
		t.Errorf("max sample round trip = %d, want 32767", gotMax)
	}
}

func TestF32ToI16Saturates(t *testing.T) {
	tr, err := GetTransform(sampfmt.F32, sampfmt.I16, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := make([]byte, 8)
	putF32(in[0:4], 10.0)
	putF32(in[4:8], -10.0)
	out := make([]byte, 4)
	tr.Convert([][]byte{in}, [][]byte{out})

	hi := int16(uint16(out[0]) | uint16(out[1])<<8)
	lo := int16(uint16(out[2]) | uint16(out[3])<<8)
	if hi != 32767 {
		t.Errorf("positive overrange sample = %d, want 32767", hi)
	}
	if lo != -32768 {
		t.Errorf("negative overrange sample = %d, want -32768", lo)
	}
}

func TestI12I16RoundTripScenario(t *testing.T) {
	// spec.md §8 scenario 1: 0xFF 0xF0 0x00 unpacks to samples -1, 0.
	tr, err := GetTransform(sampfmt.I12, sampfmt.I16, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := []byte{0xFF, 0xF0, 0x00}
	out := make([]byte, 4)
	tr.Convert([][]byte{in}, [][]byte{out})

	s0 := int16(uint16(out[0]) | uint16(out[1])<<8)
	s1 := int16(uint16(out[2]) | uint16(out[3])<<8)
	if s0 != -16 {
		t.Errorf("first sample = %d, want -16 (raw 0xFFF<<4)", s0)
	}
	if s1 != 0 {
		t.Errorf("second sample = %d, want 0", s1)
	}

	back, err := GetTransform(sampfmt.I16, sampfmt.I12, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	roundTrip := make([]byte, 3)
	back.Convert([][]byte{out}, [][]byte{roundTrip})
	for i := range in {
		if roundTrip[i] != in[i] {
			t.Errorf("round trip byte %d = %#x, want %#x", i, roundTrip[i], in[i])
		}
	}
}

func TestCI16DemuxRelayout(t *testing.T) {
	tr, err := GetTransform(sampfmt.CI16, sampfmt.CI16, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	// 2 groups of 4 complex-int16 items, 4 bytes each.
	in := make([]byte, 4*4*2)
	for i := range in {
		in[i] = byte(i)
	}
	outs := make([][]byte, 4)
	for i := range outs {
		outs[i] = make([]byte, 8)
	}
	tr.Convert([][]byte{in}, outs)

	if outs[0][0] != in[0] || outs[0][4] != in[16] {
		t.Errorf("channel 0 demux mismatch: %v", outs[0])
	}
	if outs[3][0] != in[12] {
		t.Errorf("channel 3 demux mismatch: %v", outs[3])
	}
}

func TestIdentityFallback(t *testing.T) {
	tr, err := GetTransform(sampfmt.CF32, sampfmt.CF32, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	in := []byte{1, 2, 3, 4}
	out := make([]byte, 4)
	tr.Convert([][]byte{in}, [][]byte{out})
	if string(out) != string(in) {
		t.Errorf("identity fallback changed bytes: got %v want %v", out, in)
	}
}

func putF32(b []byte, v float32) {
	bits := math.Float32bits(v)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}
