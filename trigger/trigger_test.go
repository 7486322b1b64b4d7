package trigger

import (
	"testing"

	"github.com/tve/sdrstream/transport"
	"github.com/tve/sdrstream/transport/mock"
)

func TestArmSetsTopBit(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	if err := Arm(PPS1, []transport.RegisterIO{tr}); err != nil {
		t.Fatal(err)
	}
	got, _ := tr.ReadReg(regRetimer)
	if got&bitArm == 0 {
		t.Errorf("armed register %#x missing bit 31", got)
	}
	if got&^bitArm != codes[PPS1] {
		t.Errorf("armed register %#x has wrong sync code, want %#x", got&^bitArm, codes[PPS1])
	}
}

func TestArmRejectsUnknownSync(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	if err := Arm(Sync("bogus"), []transport.RegisterIO{tr}); err == nil {
		t.Error("expected an error for an unrecognized sync string")
	}
}
