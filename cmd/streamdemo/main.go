// Command streamdemo exercises a full RX stream against the in-memory
// mock transport: it plans a burst configuration, creates a stream,
// feeds it one synthetic DMA completion, and logs the size of the
// converted buffer with the first sample time and loss count. Grounded
// on cmd/mqttradio/main.go's flag+log+toml structure.
package main

import (
	"flag"
	"log"

	"github.com/tve/sdrstream/config"
	"github.com/tve/sdrstream/rxfe"
	"github.com/tve/sdrstream/sampfmt"
	"github.com/tve/sdrstream/stream"
	"github.com/tve/sdrstream/transport"
	"github.com/tve/sdrstream/transport/mock"
)

func main() {
	profilePath := flag.String("profile", "", "path to a TOML stream profile (optional)")
	streamName := flag.String("stream", "rx0", "stream name to load from the profile")
	flag.Parse()

	req := rxfe.Request{BitsPerSample: 16, SampleBurst: 4096, Channels: []int{0}}
	if *profilePath != "" {
		doc, err := config.Load(*profilePath)
		if err != nil {
			log.Fatalf("streamdemo: loading profile: %v", err)
		}
		p, ok := doc.ByName(*streamName)
		if !ok {
			log.Fatalf("streamdemo: no stream named %q in %s", *streamName, *profilePath)
		}
		req = rxfe.Request{BitsPerSample: 16, SampleBurst: p.SPBurst, Channels: p.Channels}
	}

	lim := rxfe.Limits{
		FIFOMaxBytes:           65536,
		LaneBytes:              8,
		MaxBursts:              32,
		SamplesPerBurstModulus: 1,
		MaxBurstWords:          1 << 20,
		MaxBurstSamples:        1 << 20,
		CapacityFieldBits:      12,
	}
	plan, err := rxfe.PlanBursts(req, lim)
	if err != nil {
		log.Fatalf("streamdemo: planning bursts: %v", err)
	}
	log.Printf("streamdemo: planned bwords=%d bursts=%d fifo_capacity=%d bytes_per_burst=%d",
		plan.BWords, plan.Bursts, plan.FIFOCapacity, plan.BytesPerBurst)

	tr := mock.New(transport.Capabilities{
		FIFOMaxBytes:     lim.FIFOMaxBytes,
		LaneBytes:        lim.LaneBytes,
		FirmwareRevision: 0xffffffff,
	})
	rxCtl := &rxfe.Controller{IO: tr, FEFormat: 1}
	if err := rxCtl.Program(plan); err != nil {
		log.Fatalf("streamdemo: programming registers: %v", err)
	}

	s, err := stream.Create(stream.CreateOpts{
		Kind:         transport.RX,
		CoreID:       transport.SFERX,
		Transport:    tr,
		WireFormat:   sampfmt.CI16,
		HostFormat:   sampfmt.CF32,
		NumIn:        1,
		NumOut:       1,
		PktSymbols:   req.SampleBurst,
		RXController: rxCtl,
		Logger:       log.Printf,
	})
	if err != nil {
		log.Fatalf("streamdemo: creating stream: %v", err)
	}
	defer s.Destroy()

	wireBuf := make([]byte, plan.BytesPerBurst)
	oob := make([]byte, 8)
	go tr.DeliverRx(s.ID(), wireBuf, oob)

	out := [][]byte{make([]byte, plan.BytesPerBurst*2)}
	info, err := s.Recv(out, -1)
	if err != nil {
		log.Fatalf("streamdemo: recv: %v", err)
	}
	log.Printf("streamdemo: received %d bytes of cf32, first_sample_time=%d total_lost=%d",
		len(out[0]), info.FirstSampleTime, info.TotalLost)
}
