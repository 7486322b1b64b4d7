// Package txfe implements the TX front-end burst controller (spec.md
// §4.5): format acceptance, MTU, ring-buffer descriptor encoding, and
// the ctl() reset/mode sequence, grounded on the same Controller shape
// as rxfe.
package txfe

import (
	"github.com/tve/sdrstream/errs"
	"github.com/tve/sdrstream/sampfmt"
	"github.com/tve/sdrstream/transport"
)

// MTU is the constant maximum transmission unit spec.md §4.5 names.
const MTU = 126976

// Register addresses, mirroring rxfe's scheme for the basic TX core.
const (
	regCtl = 0x30
)

// ctl command bits (spec.md §4.5 and SPEC_FULL.md Open Question
// Decision #2, which follows sfe_tx_4.c's bit assignment exactly rather
// than spec.md's prose: !mimo sets the mute-B bit, mimo sets the
// SISO-complement bit).
const (
	cmdReset    uint32 = 0
	cmdResetBufs uint32 = 1 << 0
	bitMuteB    uint32 = 1 << 1
	bitSISO     uint32 = 1 << 2
	bitRepeat   uint32 = 1 << 3
	armBits     uint32 = 0x3 // low bits "11" per spec.md §4.5
)

// Controller drives one TX front-end core.
type Controller struct {
	IO transport.RegisterIO
}

// Timestamp is spec.md §9's "negative timestamps mean send now" sum
// type made explicit at the API boundary, encoded to the wire format
// only inside PushRingBuffer.
type Timestamp struct {
	immediate bool
	at        int64
}

// Immediate is the "send now" timestamp.
func Immediate() Timestamp { return Timestamp{immediate: true} }

// At is an absolute timestamp.
func At(t int64) Timestamp { return Timestamp{at: t} }

func (t Timestamp) encode() int64 {
	if t.immediate {
		return -1
	}
	return t.at
}

// CheckFormat accepts only ci16 with one channel at lane 0 or two
// channels at lanes 0,1 (spec.md §4.5).
func CheckFormat(f sampfmt.Format, lanes []int) error {
	const op = "txfe.CheckFormat"
	if f != sampfmt.CI16 {
		return errs.New(errs.InvalidArg, op, "only ci16 is accepted")
	}
	switch {
	case len(lanes) == 1 && lanes[0] == 0:
		return nil
	case len(lanes) == 2 && lanes[0] == 0 && lanes[1] == 1:
		return nil
	default:
		return errs.New(errs.InvalidArg, op, "lanes must be {0} or {0,1}")
	}
}

// MTUGet returns the constant MTU.
func MTUGet() int { return MTU }

// PushRingBuffer encodes one TX descriptor: two 32-bit words per
// spec.md §4.5. word0 packs the high 15 bits of the timestamp, the
// sample count minus one, and an immediate flag; word1 is the low 32
// bits of the timestamp.
func PushRingBuffer(samples int, ts Timestamp) (word0, word1 uint32) {
	t := ts.encode()
	word0 = uint32((t>>32)&0x7fff) | uint32(samples-1)<<15
	if t < 0 {
		word0 |= 0x4000_0000
	}
	word1 = uint32(t & 0xffff_ffff)
	return word0, word1
}

// Ctl implements spec.md §4.5's ctl(mimo, repeat, start): write 0, then
// RESET_BUFS, then the mode/arm command.
func (c *Controller) Ctl(mimo, repeat, start bool) error {
	const op = "txfe.Ctl"

	if err := c.IO.WriteReg(regCtl, cmdReset); err != nil {
		return errs.Wrap(errs.IO, op, "failed to write reset command", err)
	}
	if err := c.IO.WriteReg(regCtl, cmdResetBufs); err != nil {
		return errs.Wrap(errs.IO, op, "failed to write RESET_BUFS", err)
	}

	cmd := uint32(0)
	if !mimo {
		cmd |= bitMuteB
	} else {
		cmd |= bitSISO
	}
	if repeat {
		cmd |= bitRepeat
	}
	if start {
		cmd |= armBits
	}

	if err := c.IO.WriteReg(regCtl, cmd); err != nil {
		return errs.Wrap(errs.IO, op, "failed to write mode command", err)
	}
	return nil
}
