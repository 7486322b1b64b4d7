// Package regio adapts a transport.RegisterIO — the abstract register
// write primitive described in spec.md §6 — to
// periph.io/x/periph/conn.Conn, so the front-end register blocks in
// rxfe, txfe and shuffle can be driven with
// periph.io/x/periph/conn/mmr's Dev8 helpers instead of hand-rolled byte
// packing. This mirrors spimux.Conn's role in the teacher: a thin
// conn.Conn implementation wrapping a shared hardware resource.
package regio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"periph.io/x/periph/conn"

	"github.com/tve/sdrstream/transport"
)

// Conn is a periph conn.Conn backed by a transport.RegisterIO. Every
// transaction's first byte is the register address; mmr.Dev8 handles
// building that framing, Conn just forwards the four value bytes to or
// from the transport using Order.
type Conn struct {
	IO    transport.RegisterIO
	Order binary.ByteOrder
}

// New returns a Conn ready to be wrapped in a mmr.Dev8.
func New(io transport.RegisterIO) *Conn {
	return &Conn{IO: io, Order: binary.LittleEndian}
}

func (c *Conn) String() string { return "regio" }

// Duplex reports the connection as half-duplex: a register read is
// write-address-then-read-value, never simultaneous.
func (c *Conn) Duplex() conn.Duplex { return conn.Half }

// Tx implements conn.Conn for mmr.Dev8. w[0] is the register address.
// When r is nil this is a write of the 4 value bytes in w[1:]; otherwise
// it is a read of the register into r, which must be 4 bytes.
func (c *Conn) Tx(w, r []byte) error {
	if len(w) == 0 {
		return errors.New("regio: missing register address")
	}
	reg := w[0]
	if r == nil {
		if len(w) != 5 {
			return fmt.Errorf("regio: write needs a 4 byte value, got %d", len(w)-1)
		}
		return c.IO.WriteReg(reg, c.Order.Uint32(w[1:]))
	}
	if len(r) != 4 {
		return fmt.Errorf("regio: read needs a 4 byte buffer, got %d", len(r))
	}
	v, err := c.IO.ReadReg(reg)
	if err != nil {
		return err
	}
	c.Order.PutUint32(r, v)
	return nil
}

var _ conn.Conn = &Conn{}
