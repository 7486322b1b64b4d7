package rxfe

import (
	"github.com/tve/sdrstream/errs"
	"github.com/tve/sdrstream/transport"
)

// Register addresses for the basic RX front-end (spec.md §6).
const (
	regReset        = 0x30
	regBurstFormat  = 0x00
	regThrottle     = 0x20
	regFreqCordic   = 0x21
	regCfgCordic    = 0x22
)

// Reset register commands (spec.md §6).
const (
	CmdIdle     uint32 = 0
	CmdStartAt  uint32 = 1
	CmdStartImm uint32 = 2
	CmdStopAt   uint32 = 3
	CmdStopImm  uint32 = 4
)

const (
	chfmtOff = 0
	fmtOff   = 3
	wordsOff = 5
	totalOff = 5 + 12 // leaves 12 bits for (bwords-1); matches a 32-bit register
)

// Controller programs one RX front-end core's registers. feFormat is
// the 2-bit sample-format code the caller's sampfmt.Format resolves to
// (spec.md §6's BURST_FORMAT {fmt:2}).
type Controller struct {
	IO       transport.RegisterIO
	FEFormat uint8
}

// Program implements spec.md §4.4 step 5's BURST_FORMAT write: it holds
// the block in reset, writes BURST_FORMAT, then releases reset. It does
// not write a BURST_SAMPLES register; Plan carries no spburst value.
func (c *Controller) Program(p Plan) error {
	const op = "rxfe.Program"

	if err := c.IO.WriteReg(regReset, CmdStopImm); err != nil {
		return errs.Wrap(errs.IO, op, "failed to assert reset", err)
	}

	burstFormat := uint32(p.ChFmt)<<chfmtOff |
		uint32(c.FEFormat)<<fmtOff |
		uint32(p.BWords-1)<<wordsOff |
		uint32(p.FIFOCapacity)<<totalOff

	if err := c.IO.WriteReg(regBurstFormat, burstFormat); err != nil {
		return errs.Wrap(errs.IO, op, "failed to write burst format", err)
	}

	if err := c.IO.WriteReg(regReset, CmdIdle); err != nil {
		return errs.Wrap(errs.IO, op, "failed to release reset", err)
	}
	return nil
}

// Throttle implements spec.md §4.4's throttle(enable, send, skip): the
// hardware emits send+1 bursts and drops skip+1 between them. The
// register value is the enable flag at bit 24, send in bits 16-23 and
// skip in both bits 8-15 and bits 0-7 (0x01010202 for enable, 1, 2).
func (c *Controller) Throttle(enable bool, send, skip uint8) error {
	v := uint32(skip) | uint32(skip)<<8 | uint32(send)<<16
	if enable {
		v |= 0x01_00_00_00
	}
	if err := c.IO.WriteReg(regThrottle, v); err != nil {
		return errs.Wrap(errs.IO, "rxfe.Throttle", "failed to write throttle register", err)
	}
	return nil
}

// NCOEnable enables or disables the CORDIC frequency shifter.
func (c *Controller) NCOEnable(on bool, iqAccumBits uint8) error {
	v := uint32(iqAccumBits)
	if on {
		v |= 0x8000_0000
	}
	if err := c.IO.WriteReg(regCfgCordic, v); err != nil {
		return errs.Wrap(errs.IO, "rxfe.NCOEnable", "failed to write CORDIC config", err)
	}
	return nil
}

// NCOFreq programs the CORDIC NCO's frequency, signed 32-bit scaled so
// that ±math.MaxInt32 correspond to ±F_s/2.
func (c *Controller) NCOFreq(freq int32) error {
	if err := c.IO.WriteReg(regFreqCordic, uint32(freq)); err != nil {
		return errs.Wrap(errs.IO, "rxfe.NCOFreq", "failed to write CORDIC frequency", err)
	}
	return nil
}

// StartStop writes the reset register with START_IMM or STOP_IMM.
func (c *Controller) StartStop(start bool) error {
	cmd := CmdStopImm
	if start {
		cmd = CmdStartImm
	}
	if err := c.IO.WriteReg(regReset, cmd); err != nil {
		return errs.Wrap(errs.IO, "rxfe.StartStop", "failed to write reset register", err)
	}
	return nil
}
