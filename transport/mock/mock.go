// Package mock is an in-memory transport.Transport used by this
// module's tests and by cmd/streamdemo. It has no relationship to any
// real DMA engine; it exists purely so stream.Stream and the front-end
// packages can be exercised without hardware.
package mock

import (
	"sync"
	"time"

	"github.com/tve/sdrstream/transport"
)

// Transport is a minimal, goroutine-safe fake of a DMA-capable device.
// Each registered StreamID owns one mailbox of up to four buffers for
// its direction (RX or TX);
// RecvDMAWait/SendDMAGet block until Deliver/Fill respectively makes a
// buffer available, which is enough to exercise stream.Stream's blocking
// semantics and timeouts without real hardware.
type Transport struct {
	mu    sync.Mutex
	regs  map[uint8]uint32
	caps  transport.Capabilities
	nextI transport.StreamID
	rx    map[transport.StreamID]chan rxItem
	tx    map[transport.StreamID]chan txItem
}

type rxItem struct {
	buf []byte
	oob []byte
}

type txItem struct {
	buf  []byte
	stat []byte
}

// New builds a Transport advertising the given capabilities.
func New(caps transport.Capabilities) *Transport {
	return &Transport{
		regs: make(map[uint8]uint32),
		caps: caps,
		rx:   make(map[transport.StreamID]chan rxItem),
		tx:   make(map[transport.StreamID]chan txItem),
	}
}

func (t *Transport) StreamInitialize(params transport.InitParams) (transport.StreamID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextI++
	id := t.nextI
	if params.Kind == transport.RX {
		t.rx[id] = make(chan rxItem, 4)
	} else {
		t.tx[id] = make(chan txItem, 4)
	}
	return id, nil
}

func (t *Transport) StreamDeinitialize(id transport.StreamID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rx, id)
	delete(t.tx, id)
	return nil
}

func (t *Transport) Capabilities(transport.StreamID) transport.Capabilities { return t.caps }

func (t *Transport) WriteReg(addr uint8, value uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regs[addr] = value
	return nil
}

func (t *Transport) ReadReg(addr uint8) (uint32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regs[addr], nil
}

// RegSnapshot returns a copy of every register written so far, for test
// assertions.
func (t *Transport) RegSnapshot() map[uint8]uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[uint8]uint32, len(t.regs))
	for k, v := range t.regs {
		out[k] = v
	}
	return out
}

// DeliverRx pushes a completed DMA buffer for a test/demo to Recv.
func (t *Transport) DeliverRx(id transport.StreamID, buf, oob []byte) {
	t.mu.Lock()
	ch := t.rx[id]
	t.mu.Unlock()
	ch <- rxItem{buf: buf, oob: oob}
}

func (t *Transport) RecvDMAWait(id transport.StreamID, timeout time.Duration) ([]byte, []byte, error) {
	t.mu.Lock()
	ch := t.rx[id]
	t.mu.Unlock()
	if ch == nil {
		return nil, nil, transport.ErrTimedOut
	}
	if timeout < 0 {
		item := <-ch
		return item.buf, item.oob, nil
	}
	select {
	case item := <-ch:
		return item.buf, item.oob, nil
	case <-time.After(timeout):
		return nil, nil, transport.ErrTimedOut
	}
}

func (t *Transport) RecvDMARelease(transport.StreamID, []byte) error { return nil }

// FillTx makes a host buffer available to SendDMAGet, the mirror of
// DeliverRx for the TX direction.
func (t *Transport) FillTx(id transport.StreamID, buf, stat []byte) {
	t.mu.Lock()
	ch := t.tx[id]
	t.mu.Unlock()
	ch <- txItem{buf: buf, stat: stat}
}

func (t *Transport) SendDMAGet(id transport.StreamID, timeout time.Duration) ([]byte, []byte, error) {
	t.mu.Lock()
	ch := t.tx[id]
	t.mu.Unlock()
	if ch == nil {
		return nil, nil, transport.ErrTimedOut
	}
	if timeout < 0 {
		item := <-ch
		return item.buf, item.stat, nil
	}
	select {
	case item := <-ch:
		return item.buf, item.stat, nil
	case <-time.After(timeout):
		return nil, nil, transport.ErrTimedOut
	}
}

func (t *Transport) SendDMACommit(transport.StreamID, []byte, int, []byte) error { return nil }

var _ transport.Transport = (*Transport)(nil)
