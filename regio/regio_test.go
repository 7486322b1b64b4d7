package regio

import (
	"encoding/binary"
	"testing"

	"github.com/tve/sdrstream/transport"
	"github.com/tve/sdrstream/transport/mock"
)

func TestTxWriteForwardsValue(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	c := New(tr)

	w := make([]byte, 5)
	w[0] = 0x22
	binary.LittleEndian.PutUint32(w[1:], 0xDEADBEEF)
	if err := c.Tx(w, nil); err != nil {
		t.Fatal(err)
	}
	if v, _ := tr.ReadReg(0x22); v != 0xDEADBEEF {
		t.Errorf("register = %#x, want 0xDEADBEEF", v)
	}
}

func TestTxReadFillsBuffer(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	_ = tr.WriteReg(0x10, 0x12345678)
	c := New(tr)

	r := make([]byte, 4)
	if err := c.Tx([]byte{0x10}, r); err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint32(r); got != 0x12345678 {
		t.Errorf("read value = %#x, want 0x12345678", got)
	}
}

func TestTxRejectsShortWrite(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	c := New(tr)
	if err := c.Tx([]byte{0x10, 0x01}, nil); err == nil {
		t.Error("expected an error for a short write payload")
	}
}

func TestTxRejectsShortReadBuffer(t *testing.T) {
	tr := mock.New(transport.Capabilities{})
	c := New(tr)
	if err := c.Tx([]byte{0x10}, make([]byte, 2)); err == nil {
		t.Error("expected an error for a short read buffer")
	}
}
