package shuffle

import "testing"

func TestBuildIdentity(t *testing.T) {
	p := Build(4, []int{0, 1}, true, false)
	want := [4]uint16{0, 0, 0, 0}
	if p.StageMasks != want {
		t.Errorf("identity masks = %v, want %v", p.StageMasks, want)
	}
}

func TestBuildSwap(t *testing.T) {
	p := Build(4, []int{1, 0}, true, false)
	want := [4]uint16{0xFFFF, 0x0000, 0x0000, 0x0000}
	if p.StageMasks != want {
		t.Errorf("swap masks = %v, want %v", p.StageMasks, want)
	}
}

func TestLegacyTXSingleChannel(t *testing.T) {
	f := LegacyTX([2]int{0, -1})
	if !f.MuteB || f.MuteA {
		t.Errorf("expected MuteB only, got %+v", f)
	}
	f = LegacyTX([2]int{-1, 1})
	if !f.MuteA || f.MuteB {
		t.Errorf("expected MuteA only, got %+v", f)
	}
}

func TestLegacyTXSwap(t *testing.T) {
	f := LegacyTX([2]int{1, 0})
	if !f.SwapAB {
		t.Errorf("expected SwapAB for channels [1,0]")
	}
}
