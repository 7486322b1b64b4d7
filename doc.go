// Package sdrstream is the host-side streaming core for software-defined
// radios: sample-format conversion with runtime SIMD dispatch, RX/TX
// front-end register programming, and the producer/consumer ring that
// couples a DMA transport with application threads.
//
// Device discovery, transport back-ends and RF-chip register drivers are
// out of scope and are referenced only through the transport package's
// interfaces. Sub-packages under cmd/ contain small commands that
// exercise the core against a mock transport.
package sdrstream
