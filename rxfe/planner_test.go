package rxfe

import (
	"testing"

	"github.com/tve/sdrstream/transport"
	"github.com/tve/sdrstream/transport/mock"
)

// baseLimits mirrors a core whose per-burst word budget tops out at
// 1024 bwords, so a two-channel request (2048 bwords total) cannot fit
// in a single burst and the planner must search out to bursts=2.
func baseLimits() Limits {
	return Limits{
		FIFOMaxBytes:           65536,
		LaneBytes:              8,
		MaxBursts:              32,
		SamplesPerBurstModulus: 1,
		MaxBurstWords:          1024,
		MaxBurstSamples:        1 << 20,
		CapacityFieldBits:      12,
	}
}

func TestPlanBurstsScenarioSingleChannel(t *testing.T) {
	req := Request{
		BitsPerSample: 16,
		SampleBurst:   4096,
		Channels:      []int{0},
	}
	p, err := PlanBursts(req, baseLimits())
	if err != nil {
		t.Fatal(err)
	}
	if p.BWords != 1024 {
		t.Errorf("BWords = %d, want 1024", p.BWords)
	}
	if p.Bursts != 1 {
		t.Errorf("Bursts = %d, want 1", p.Bursts)
	}
	if p.FIFOCapacity != 64 {
		t.Errorf("FIFOCapacity = %d, want 64", p.FIFOCapacity)
	}
	if p.BytesPerBurst != 8192 {
		t.Errorf("BytesPerBurst = %d, want 8192", p.BytesPerBurst)
	}
}

func TestPlanBurstsScenarioTwoChannels(t *testing.T) {
	req := Request{
		BitsPerSample: 16,
		SampleBurst:   4096,
		Channels:      []int{0, 1},
	}
	p, err := PlanBursts(req, baseLimits())
	if err != nil {
		t.Fatal(err)
	}
	if p.Bursts != 2 {
		t.Errorf("Bursts = %d, want 2", p.Bursts)
	}
	bwordsPerBurst := ceilDiv(p.BWords, p.Bursts)
	if bwordsPerBurst != 1024 {
		t.Errorf("bwords per burst = %d, want 1024", bwordsPerBurst)
	}
	samplesPerBurst := req.SampleBurst / p.Bursts
	if samplesPerBurst != 2048 {
		t.Errorf("samples per burst = %d, want 2048", samplesPerBurst)
	}
}

func TestPlanBurstsRejectsUnrecognizedChannels(t *testing.T) {
	req := Request{BitsPerSample: 16, SampleBurst: 1024, Channels: []int{0, 1, 3}}
	if _, err := PlanBursts(req, baseLimits()); err == nil {
		t.Fatal("expected an error for an unrecognized channel map")
	}
}

func TestPlannerClosureProperty(t *testing.T) {
	lim := baseLimits()
	req := Request{BitsPerSample: 16, SampleBurst: 4096, Channels: []int{0}}
	p, err := PlanBursts(req, lim)
	if err != nil {
		t.Fatal(err)
	}
	if p.BytesPerBurst*p.BurstsPerBlock > lim.FIFOMaxBytes {
		t.Errorf("bytes_per_burst * bursts_per_block = %d exceeds fifo_max_bytes %d",
			p.BytesPerBurst*p.BurstsPerBlock, lim.FIFOMaxBytes)
	}
	lhs := (p.BytesPerBurst * 8) / req.BitsPerSample / p.RawChannels
	rhs := req.SampleBurst / p.BurstsPerBlock
	if lhs < rhs {
		t.Errorf("planner closure violated: %d < %d", lhs, rhs)
	}
}

func TestThrottleEncoding(t *testing.T) {
	tr := mock.New(transport.Capabilities{FIFOMaxBytes: 65536, LaneBytes: 8})
	ctl := &Controller{IO: tr}
	if err := ctl.Throttle(true, 1, 2); err != nil {
		t.Fatal(err)
	}
	got, err := tr.ReadReg(regThrottle)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x01010202 {
		t.Errorf("throttle register = %#x, want %#x", got, 0x01010202)
	}
}
