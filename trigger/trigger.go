// Package trigger implements cross-stream start arming (spec.md §5's
// sync(type, streams[])): selecting a sync source and writing the
// command word that arms every named stream to it.
package trigger

import (
	"github.com/tve/sdrstream/errs"
	"github.com/tve/sdrstream/transport"
)

// Sync names one of spec.md §6's sync strings.
type Sync string

const (
	None       Sync = "none"
	Off        Sync = "off"
	SysRef     Sync = "sysref"
	PPS1       Sync = "1pps"
	SysRefGen  Sync = "sysref+gen"
	RX         Sync = "rx"
	TX         Sync = "tx"
	Any        Sync = "any"
	All        Sync = "all"
)

var codes = map[Sync]uint32{
	None:      0,
	Off:       1,
	SysRef:    2,
	PPS1:      3,
	SysRefGen: 4,
	RX:        5,
	TX:        6,
	Any:       7,
	All:       8,
}

// Register address for the retimer sync-source register.
const regRetimer = 0x40

// bitArm is set on every command word (spec.md §6: "bit 31 set").
const bitArm = 0x8000_0000

// Arm selects sync and writes the retimer command word, with bit 31
// set, to the register I/O of every named stream's owning front end.
func Arm(sync Sync, ios []transport.RegisterIO) error {
	const op = "trigger.Arm"
	code, ok := codes[sync]
	if !ok {
		return errs.New(errs.InvalidArg, op, "unrecognized sync string")
	}
	cmd := code | bitArm
	for _, io := range ios {
		if err := io.WriteReg(regRetimer, cmd); err != nil {
			return errs.Wrap(errs.IO, op, "failed to arm stream", err)
		}
	}
	return nil
}
