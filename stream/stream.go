// Package stream implements the user-visible stream handle (spec.md
// §4.7): Create/Destroy, Recv/Send, Op, Stat, OptionGet/OptionSet. It
// ties together a transport.Transport, a converter, and (for RX) an
// rxfe.Controller or (for TX) a txfe.Controller, following the
// one-owner-per-object discipline of spec.md §5 — a Stream must only
// ever be driven from its creating goroutine.
package stream

import (
	"encoding/binary"
	"time"

	"github.com/tve/sdrstream/convert"
	"github.com/tve/sdrstream/errs"
	"github.com/tve/sdrstream/rxfe"
	"github.com/tve/sdrstream/sampfmt"
	"github.com/tve/sdrstream/shuffle"
	"github.com/tve/sdrstream/transport"
	"github.com/tve/sdrstream/txfe"
)

// firmwareMinimum is spec.md §7's invariant firmware revision gate.
const firmwareMinimum = 0xd2b10c09

// Logger matches the teacher's sx1231.RadioOpts.Logger callback shape.
type Logger func(format string, v ...interface{})

func discard(string, ...interface{}) {}

// Timestamp is spec.md §9's explicit sum type for "send/receive
// immediately" versus an absolute timestamp, encoded to the wire format
// only inside the TX descriptor builder or OOB decode.
type Timestamp struct {
	immediate bool
	at        int64
}

func Immediate() Timestamp   { return Timestamp{immediate: true} }
func At(t int64) Timestamp   { return Timestamp{at: t} }
func (t Timestamp) IsImmediate() bool { return t.immediate }
func (t Timestamp) Value() int64      { return t.at }

// Stats are the caller-thread-owned counters spec.md §5/§7 require:
// overflow/underflow never surface as errors, only here.
type Stats struct {
	Dropped          uint64
	Underruns        uint64
	FormatMismatches uint64
}

// Info is populated by Recv per spec.md §4.7.
type Info struct {
	FirstSampleTime int64
	SampleCount     int
	TotalLost       uint64
	Extra           []byte
}

// SendStat is the decoded TX status spec.md §4.7's send() reads back.
type SendStat struct {
	HostTime  int64
	KnownTime int64
	Underruns uint32
	FIFOUsed  uint32
}

// StatInfo answers spec.md §4.7's stat() operation.
type StatInfo struct {
	Kind                   transport.Kind
	Channels               int
	PktHostBytesPerChannel int
	PktSymbols             int
	BurstCount             int
}

// Op is spec.md §4.7's op() command.
type Op int

const (
	OpStart Op = iota
	OpStartAt
	OpStop
)

// CreateOpts configures a new Stream.
type CreateOpts struct {
	Kind       transport.Kind
	CoreID     transport.CoreID
	Transport  transport.Transport
	WireFormat sampfmt.Format
	HostFormat sampfmt.Format
	NumIn      int
	NumOut     int

	Channels   int
	PktSymbols int
	BurstCount int
	BurstMask  uint64

	RXController *rxfe.Controller
	TXController *txfe.Controller

	CheckFirmware bool
	Logger        Logger
}

// Stream is the realized handle. Construct with Create.
type Stream struct {
	kind       transport.Kind
	coreID     transport.CoreID
	id         transport.StreamID
	tr         transport.Transport
	conv       *convert.Transform
	wireFormat sampfmt.Format
	hostFormat sampfmt.Format

	channels   int
	pktSymbols int
	burstCount int
	burstMask  uint64

	rxCtl *rxfe.Controller
	txCtl *txfe.Controller

	rxStarted bool
	rxTime    int64

	log Logger

	Stats Stats
}

// Create validates the requested firmware revision (if CheckFirmware is
// set), resolves the converter and initializes the transport-side
// stream (spec.md §4.7, §4.11's firmware-revision gate).
func Create(opts CreateOpts) (*Stream, error) {
	const op = "stream.Create"

	log := opts.Logger
	if log == nil {
		log = discard
	}

	id, err := opts.Transport.StreamInitialize(transport.InitParams{
		Kind:       opts.Kind,
		CoreID:     opts.CoreID,
		PktBytes:   opts.PktSymbols,
		ChannelCnt: opts.Channels,
	})
	if err != nil {
		return nil, errs.Wrap(errs.IO, op, "stream_initialize failed", err)
	}

	caps := opts.Transport.Capabilities(id)
	if opts.CheckFirmware && caps.FirmwareRevision < firmwareMinimum {
		return nil, errs.New(errs.InvariantFW, op, "firmware revision below the minimum this module requires")
	}

	conv, err := convert.GetTransform(opts.WireFormat, opts.HostFormat, opts.NumIn, opts.NumOut)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArg, op, "no converter for the requested format pair", err)
	}

	return &Stream{
		kind:       opts.Kind,
		coreID:     opts.CoreID,
		id:         id,
		tr:         opts.Transport,
		conv:       conv,
		wireFormat: opts.WireFormat,
		hostFormat: opts.HostFormat,
		channels:   opts.Channels,
		pktSymbols: opts.PktSymbols,
		burstCount: opts.BurstCount,
		burstMask:  opts.BurstMask,
		rxCtl:      opts.RXController,
		txCtl:      opts.TXController,
		log:        log,
	}, nil
}

// ID returns the underlying transport stream handle, for callers that
// need to drive a mock or test transport directly.
func (s *Stream) ID() transport.StreamID { return s.id }

// Destroy releases the transport-side stream.
func (s *Stream) Destroy() error {
	if err := s.tr.StreamDeinitialize(s.id); err != nil {
		return errs.Wrap(errs.IO, "stream.Destroy", "stream_deinitialize failed", err)
	}
	return nil
}

// Recv implements spec.md §4.7's recv().
func (s *Stream) Recv(buffers [][]byte, timeoutMs int) (Info, error) {
	const op = "stream.Recv"
	if s.kind != transport.RX {
		return Info{}, errs.New(errs.Unsupported, op, "recv on a non-RX stream")
	}

	if !s.rxStarted {
		// spec.md §4.7: "on first call after a start, writes the
		// RX_READY register" — modeled as re-posting the ready token
		// through OptionSet("ready", 1) so both paths share one
		// implementation.
		if err := s.OptionSet("ready", 1); err != nil {
			return Info{}, err
		}
		s.rxStarted = true
	}

	buf, oob, err := s.tr.RecvDMAWait(s.id, timeoutDuration(timeoutMs))
	if err != nil {
		if err == transport.ErrTimedOut {
			return Info{}, errs.New(errs.Timeout, op, "recv_dma_wait timed out")
		}
		return Info{}, errs.Wrap(errs.IO, op, "recv_dma_wait failed", err)
	}

	var lost uint64
	if len(oob) >= 8 {
		word := binary.LittleEndian.Uint64(oob[:8])
		lost = word & 0x00ff_ffff
		mask := word >> 32
		if mask != s.burstMask {
			s.Stats.FormatMismatches++
			s.log("stream: OOB burst_mask %#x does not match expected %#x", mask, s.burstMask)
		}
	}
	s.Stats.Dropped += lost
	s.rxTime += int64(s.pktSymbols) * int64(lost)

	s.conv.Convert([][]byte{buf}, buffers)

	if err := s.tr.RecvDMARelease(s.id, buf); err != nil {
		return Info{}, errs.Wrap(errs.IO, op, "recv_dma_release failed", err)
	}

	return Info{
		FirstSampleTime: s.rxTime,
		SampleCount:     len(buf) / bytesPerSample(s.wireFormat),
		TotalLost:       s.Stats.Dropped,
	}, nil
}

// Send implements spec.md §4.7's send(), splitting recursively into
// pktSymbols-sized chunks when samples exceeds it.
func (s *Stream) Send(buffers [][]byte, samples int, ts Timestamp, timeoutMs int) (SendStat, error) {
	const op = "stream.Send"
	if s.kind != transport.TX {
		return SendStat{}, errs.New(errs.Unsupported, op, "send on a non-TX stream")
	}

	if samples > s.pktSymbols {
		chunk := s.pktSymbols
		first, err := s.sendOne(buffers, chunk, ts, timeoutMs)
		if err != nil {
			return SendStat{}, err
		}
		nextTs := ts
		if !ts.IsImmediate() {
			nextTs = At(ts.Value() + int64(chunk))
		}
		rest := sliceAll(buffers, chunk, bytesPerHostSample(s.hostFormat))
		if _, err := s.Send(rest, samples-chunk, nextTs, timeoutMs); err != nil {
			return SendStat{}, err
		}
		return first, nil
	}
	return s.sendOne(buffers, samples, ts, timeoutMs)
}

func (s *Stream) sendOne(buffers [][]byte, samples int, ts Timestamp, timeoutMs int) (SendStat, error) {
	const op = "stream.Send"

	buf, stat, err := s.tr.SendDMAGet(s.id, timeoutDuration(timeoutMs))
	if err != nil {
		if err == transport.ErrTimedOut {
			return SendStat{}, errs.New(errs.Timeout, op, "send_dma_get timed out")
		}
		return SendStat{}, errs.Wrap(errs.IO, op, "send_dma_get failed", err)
	}

	decoded := decodeSendStat(stat)
	s.Stats.Underruns += uint64(decoded.Underruns)

	s.conv.Convert(buffers, [][]byte{buf})

	word0, word1 := txfe.PushRingBuffer(samples, encodeTimestamp(ts))
	oob := make([]byte, 8)
	binary.LittleEndian.PutUint32(oob[0:4], word0)
	binary.LittleEndian.PutUint32(oob[4:8], word1)

	wireBytes := samples * bytesPerSample(s.wireFormat)
	if err := s.tr.SendDMACommit(s.id, buf, wireBytes, oob); err != nil {
		return SendStat{}, errs.Wrap(errs.IO, op, "send_dma_commit failed", err)
	}
	return decoded, nil
}

// Op implements spec.md §4.7's op().
func (s *Stream) Op(op Op, ts Timestamp) error {
	const errOp = "stream.Op"
	switch s.kind {
	case transport.RX:
		if s.rxCtl == nil {
			return errs.New(errs.Unsupported, errOp, "stream has no rxfe.Controller")
		}
		switch op {
		case OpStart, OpStartAt:
			s.rxStarted = false // the next Recv re-posts RX_READY
			return s.rxCtl.StartStop(true)
		case OpStop:
			return s.rxCtl.StartStop(false)
		}
	case transport.TX:
		if s.txCtl == nil {
			return errs.New(errs.Unsupported, errOp, "stream has no txfe.Controller")
		}
		switch op {
		case OpStart, OpStartAt:
			return s.txCtl.Ctl(s.channels > 1, false, true)
		case OpStop:
			return s.txCtl.Ctl(s.channels > 1, false, false)
		}
	}
	return errs.New(errs.InvalidArg, errOp, "unrecognized op")
}

// Stat implements spec.md §4.7's stat().
func (s *Stream) Stat() StatInfo {
	return StatInfo{
		Kind:                   s.kind,
		Channels:               s.channels,
		PktHostBytesPerChannel: s.pktSymbols * bytesPerSample(s.hostFormat),
		PktSymbols:             s.pktSymbols,
		BurstCount:             s.burstCount,
	}
}

// OptionGet implements spec.md §4.7's option_get(); "fd" is the only
// recognized name, and this in-memory core has no poll descriptor.
func (s *Stream) OptionGet(name string) (int64, error) {
	if name == "fd" {
		return -1, nil
	}
	return 0, errs.New(errs.InvalidArg, "stream.OptionGet", "unrecognized option "+name)
}

// OptionSet implements spec.md §4.7's option_set().
func (s *Stream) OptionSet(name string, value int64) error {
	const op = "stream.OptionSet"
	switch name {
	case "ready":
		if s.kind != transport.RX || s.rxCtl == nil {
			return errs.New(errs.Unsupported, op, "ready is RX only")
		}
		return s.rxCtl.IO.WriteReg(regRXReady, uint32(value))
	case "throttle":
		if s.kind != transport.RX || s.rxCtl == nil {
			return errs.New(errs.Unsupported, op, "throttle is RX only")
		}
		enable := (value>>16)&1 != 0
		send := uint8((value >> 8) & 0xff)
		skip := uint8(value & 0xff)
		return s.rxCtl.Throttle(enable, send, skip)
	case "mute":
		if s.kind != transport.TX || s.txCtl == nil {
			return errs.New(errs.Unsupported, op, "mute is TX only")
		}
		return s.txCtl.IO.WriteReg(regTXMute, uint32(value))
	case "chmap":
		return s.applyChannelMap(value)
	default:
		return errs.New(errs.InvalidArg, op, "unrecognized option "+name)
	}
}

const (
	regRXReady  = 0x01
	regTXMute   = 0x0F
	regShuffle0 = 0x10 // SHUFFLE_0..SHUFFLE_3 occupy 0x10..0x13
	regSwapAB   = 0x0E // legacy TX core only; absent from the extended register map
)

// applyChannelMap implements option_set("chmap"): value packs one 4-bit
// logical-channel nibble per group in bits 0-15 (0xF means "inactive",
// used only by the legacy TX pair) plus a swap_iq flag at bit 16.
// Extended cores (EXFERX/EXFETX) apply the map through the shuffle
// engine's SHUFFLE_0..3 registers; the legacy TX core has no shuffle
// stages and falls back to swap_ab/mute (spec.md §4.6's second
// paragraph).
func (s *Stream) applyChannelMap(value int64) error {
	const op = "stream.OptionSet"
	swapIQ := (value>>16)&1 != 0

	switch s.coreID {
	case transport.EXFERX, transport.EXFETX:
		io, err := s.chmapIO(op)
		if err != nil {
			return err
		}
		lanes := s.channels
		if s.wireFormat.Complex {
			lanes *= 2
		}
		channels := make([]int, s.channels)
		for i := range channels {
			channels[i] = int((value >> (4 * i)) & 0xF)
		}
		plan := shuffle.Build(lanes, channels, s.wireFormat.Complex, swapIQ)
		for i, mask := range plan.StageMasks {
			if err := io.WriteReg(regShuffle0+uint8(i), uint32(mask)); err != nil {
				return errs.Wrap(errs.IO, op, "failed to write a shuffle stage register", err)
			}
		}
		return nil
	case transport.SFETX:
		if s.txCtl == nil {
			return errs.New(errs.Unsupported, op, "chmap requires a txfe.Controller")
		}
		var pair [2]int
		for i := range pair {
			if nibble := (value >> (4 * i)) & 0xF; nibble == 0xF {
				pair[i] = -1
			} else {
				pair[i] = int(nibble)
			}
		}
		fb := shuffle.LegacyTX(pair)
		swapVal := uint32(0)
		if fb.SwapAB {
			swapVal = 1
		}
		if err := s.txCtl.IO.WriteReg(regSwapAB, swapVal); err != nil {
			return errs.Wrap(errs.IO, op, "failed to write swap_ab register", err)
		}
		mute := uint32(0)
		if fb.MuteA {
			mute |= 0x1
		}
		if fb.MuteB {
			mute |= 0x2
		}
		if err := s.txCtl.IO.WriteReg(regTXMute, mute); err != nil {
			return errs.Wrap(errs.IO, op, "failed to write mute register", err)
		}
		return nil
	default:
		return errs.New(errs.Unsupported, op, "chmap is not supported on this core")
	}
}

func (s *Stream) chmapIO(op string) (transport.RegisterIO, error) {
	switch s.kind {
	case transport.RX:
		if s.rxCtl == nil {
			return nil, errs.New(errs.Unsupported, op, "chmap requires an rxfe.Controller")
		}
		return s.rxCtl.IO, nil
	case transport.TX:
		if s.txCtl == nil {
			return nil, errs.New(errs.Unsupported, op, "chmap requires a txfe.Controller")
		}
		return s.txCtl.IO, nil
	default:
		return nil, errs.New(errs.Unsupported, op, "chmap requires a stream kind")
	}
}

func timeoutDuration(ms int) time.Duration {
	if ms < 0 {
		return -1
	}
	return time.Duration(ms) * time.Millisecond
}

func encodeTimestamp(ts Timestamp) txfe.Timestamp {
	if ts.IsImmediate() {
		return txfe.Immediate()
	}
	return txfe.At(ts.Value())
}

// decodeSendStat decodes the four status words spec.md §4.7's send()
// reads back: host_time and known_time (8 bytes each), then underruns
// and fifo_used (4 bytes each).
func decodeSendStat(stat []byte) SendStat {
	if len(stat) < 24 {
		return SendStat{}
	}
	return SendStat{
		HostTime:  int64(binary.LittleEndian.Uint64(stat[0:8])),
		KnownTime: int64(binary.LittleEndian.Uint64(stat[8:16])),
		Underruns: binary.LittleEndian.Uint32(stat[16:20]),
		FIFOUsed:  binary.LittleEndian.Uint32(stat[20:24]),
	}
}

func bytesPerSample(f sampfmt.Format) int {
	if f.IsFunction() {
		return 0
	}
	n := int(f.Bits) / 8
	if n == 0 || f.Bits%8 != 0 {
		n = 2 // 12-bit samples round up to a 2-byte unpacked unit for sizing purposes
	}
	if f.Complex {
		n *= 2
	}
	return n
}

func bytesPerHostSample(f sampfmt.Format) int { return bytesPerSample(f) }

// sliceAll re-slices every channel buffer past the first chunkSamples
// worth of bytes, for Send's recursive chunking.
func sliceAll(buffers [][]byte, chunkSamples, bytesPerSample int) [][]byte {
	off := chunkSamples * bytesPerSample
	out := make([][]byte, len(buffers))
	for i, b := range buffers {
		if off > len(b) {
			out[i] = b[len(b):]
			continue
		}
		out[i] = b[off:]
	}
	return out
}
