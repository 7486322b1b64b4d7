// Package regbus multiplexes two front-end register windows (for
// example a basic SFERX core and its extended EXFERX sibling) that share
// one physical register bus behind a single select register. It is
// adapted from spimux.Conn's pattern of wrapping a shared resource
// behind a mutex and a per-side selector value, generalized from an SPI
// chip-select GPIO pin to a register-bus select word.
package regbus

import (
	"sync"

	"github.com/tve/sdrstream/transport"
)

// Mux is one side of a shared register bus. Before every access it
// writes its select value to selReg, then performs the access, all
// under the bus-wide mutex so the other side can never observe a
// half-completed select.
type Mux struct {
	mu     *sync.Mutex
	io     transport.RegisterIO
	selReg uint8
	sel    uint32
}

// New returns two Muxes sharing io through selReg: the first selects
// with sel0, the second with sel1.
func New(io transport.RegisterIO, selReg uint8, sel0, sel1 uint32) (*Mux, *Mux) {
	mu := &sync.Mutex{}
	return &Mux{mu, io, selReg, sel0}, &Mux{mu, io, selReg, sel1}
}

// WriteReg selects this side and writes addr.
func (m *Mux) WriteReg(addr uint8, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.io.WriteReg(m.selReg, m.sel); err != nil {
		return err
	}
	return m.io.WriteReg(addr, value)
}

// ReadReg selects this side and reads addr.
func (m *Mux) ReadReg(addr uint8) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.io.WriteReg(m.selReg, m.sel); err != nil {
		return 0, err
	}
	return m.io.ReadReg(addr)
}

var _ transport.RegisterIO = &Mux{}
