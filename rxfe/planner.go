// Package rxfe implements the RX front-end burst planner and register
// programming (spec.md §4.4), grounded on sx1231.Radio's pattern of a
// mutex-guarded register-access object plus the register bitfield
// layout in original_source's sfe_rx_4.c (see SPEC_FULL.md §4.10).
package rxfe

import (
	"fmt"

	"github.com/tve/sdrstream/errs"
)

// Request describes one plan request: spec.md §4.4's
// {sfmt, spburst, burstspblk, chcnt, channels}.
type Request struct {
	BitsPerSample int
	SampleBurst   int // spburst
	BurstsPerBlock int // burstspblk; 0 means "search for one"
	Channels      []int
}

// Limits describes the front-end core's fixed capabilities: spec.md
// §4.4's fifo_max_bytes and lane_bytes plus the per-core burst limits
// and the capacity register field width.
type Limits struct {
	FIFOMaxBytes        int
	LaneBytes            int
	MaxBursts            int // <= 32
	SamplesPerBurstModulus int
	MaxBurstWords        int
	MaxBurstSamples      int
	CapacityFieldBits    int // register field width for fifo_capacity
}

// Plan is the resolved burst configuration, spec.md §4.4's output FIFO
// configuration plus the register values to program.
type Plan struct {
	ChFmt          uint8
	RawChannels    int
	BWords         int
	Bursts         int
	FIFOCapacity   int
	BytesPerBurst  int
	BurstsPerBlock int
	OOBOffset      int
	OOBLength      int
}

// PlanBursts implements spec.md §4.4 steps 1-4.
func PlanBursts(req Request, lim Limits) (Plan, error) {
	const op = "rxfe.PlanBursts"

	if req.SampleBurst <= 0 {
		return Plan{}, errs.New(errs.InvalidArg, op, "spburst must be positive")
	}

	chfmt, rawChannels, ok := resolveChannels(req.Channels)
	if !ok {
		return Plan{}, errs.New(errs.InvalidArg, op, fmt.Sprintf("unrecognized channel map %v", req.Channels))
	}

	bwords := ceilDiv(req.BitsPerSample*rawChannels*req.SampleBurst, 8*lim.LaneBytes)

	var bursts int
	if req.BurstsPerBlock > 0 {
		bursts = req.BurstsPerBlock
		if bwords > lim.MaxBurstWords {
			return Plan{}, errs.New(errs.Unsupported, op, "bwords exceeds max_burst_words for fixed burst count")
		}
		if req.SampleBurst > lim.MaxBurstSamples {
			return Plan{}, errs.New(errs.Unsupported, op, "spburst exceeds max_burst_samples for fixed burst count")
		}
		if lim.SamplesPerBurstModulus > 0 && req.SampleBurst%lim.SamplesPerBurstModulus != 0 {
			return Plan{}, errs.New(errs.Unsupported, op, "spburst is not a multiple of the modulus for fixed burst count")
		}
	} else {
		found, err := searchBursts(req, lim, bwords, rawChannels)
		if err != nil {
			return Plan{}, err
		}
		bursts = found
	}

	fifoCapacity := lim.FIFOMaxBytes / ceilDiv(bwords, bursts)
	if lim.CapacityFieldBits > 0 {
		maxCap := (1 << lim.CapacityFieldBits) - 1
		if fifoCapacity > maxCap {
			fifoCapacity = maxCap
		}
	}

	return Plan{
		ChFmt:          chfmt,
		RawChannels:    rawChannels,
		BWords:         bwords,
		Bursts:         bursts,
		FIFOCapacity:   fifoCapacity,
		BytesPerBurst:  bwords * lim.LaneBytes,
		BurstsPerBlock: bursts,
	}, nil
}

// searchBursts implements spec.md §4.4 step 3's search over
// bursts in 1..max_bursts, preferring the smallest bursts value that
// makes bwords exactly divisible, else the candidate minimizing the
// stub (SPEC_FULL.md's Open Question Decision #1).
func searchBursts(req Request, lim Limits, bwords, rawChannels int) (int, error) {
	type candidate struct {
		bursts int
		stub   int
		exact  bool
	}
	var best *candidate

	for bursts := 1; bursts <= lim.MaxBursts; bursts++ {
		if req.SampleBurst%bursts != 0 {
			continue
		}
		spBurst := req.SampleBurst / bursts
		if lim.SamplesPerBurstModulus > 0 && spBurst%lim.SamplesPerBurstModulus != 0 {
			continue
		}
		bwordsPerBurst := ceilDiv(bwords, bursts)
		fifoCapacity := lim.FIFOMaxBytes / bwordsPerBurst
		if fifoCapacity < 2 {
			continue
		}
		if spBurst > lim.MaxBurstSamples {
			continue
		}
		if bwordsPerBurst > lim.MaxBurstWords {
			continue
		}

		exact := bwords%bursts == 0
		stub := bwordsPerBurst*bursts - bwords

		c := candidate{bursts: bursts, stub: stub, exact: exact}
		switch {
		case best == nil:
			best = &c
		case c.exact && !best.exact:
			best = &c
		case c.exact == best.exact && c.stub < best.stub:
			best = &c
		case c.exact == best.exact && c.stub == best.stub && c.bursts < best.bursts:
			best = &c
		}
	}

	if best == nil {
		return 0, errs.New(errs.Unsupported, "rxfe.PlanBursts", "no burst count satisfies the front-end's constraints")
	}
	return best.bursts, nil
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
