// Package ring implements the fixed-capacity single-producer/single-
// consumer byte-item ring (spec.md §4.3) used to hand DMA-sized buffers
// between the transport callback thread and the owning stream's caller
// thread. Capacity is a power of two; each slot is a fixed-size byte
// item. Two counting semaphores gate producer and consumer sides, the
// way the original POSIX-semaphore ring does, adapted onto
// golang.org/x/sync/semaphore per DESIGN.md.
package ring

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimedOut is returned by Wait calls that expire before a slot
// becomes available.
var ErrTimedOut = errors.New("ring: wait timed out")

// Ring is a fixed-capacity ring of itemSize-byte slots. It must be used
// by exactly one producer goroutine and one consumer goroutine per
// spec.md §5's one-owner-per-object discipline; Ring itself does not
// enforce this.
type Ring struct {
	capacity uint32 // power of two
	mask     uint32
	itemSize int

	storage []byte

	producerSem *semaphore.Weighted // counts free slots, init == capacity
	consumerSem *semaphore.Weighted // counts filled slots, init == 0

	producerIndex uint32
	consumerIndex uint32
}

// New allocates a ring of capacity (rounded up to the next power of
// two) items of itemSize bytes each.
func New(capacity int, itemSize int) *Ring {
	cap32 := nextPow2(uint32(capacity))
	consumerSem := semaphore.NewWeighted(int64(cap32))
	// consumerSem must start at 0 filled slots; NewWeighted starts with
	// its full capacity available, so drain it immediately.
	consumerSem.TryAcquire(int64(cap32))
	return &Ring{
		capacity:    cap32,
		mask:        cap32 - 1,
		itemSize:    itemSize,
		storage:     make([]byte, int(cap32)*itemSize),
		producerSem: semaphore.NewWeighted(int64(cap32)),
		consumerSem: consumerSem,
	}
}

func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

// At returns the item storage at index, unchecked — callers must hold
// the slot via a prior ProducerWait/ConsumerWait.
func (r *Ring) At(index uint32) []byte {
	off := int(index&r.mask) * r.itemSize
	return r.storage[off : off+r.itemSize]
}

// Capacity returns the ring's (power-of-two-rounded) slot count.
func (r *Ring) Capacity() int { return int(r.capacity) }

// ProducerWait decrements the free-slot semaphore and returns the next
// slot index to fill. timeoutUs follows spec.md §4.3: -1 blocks
// indefinitely, 0 is non-blocking, positive values wait up to that many
// microseconds.
func (r *Ring) ProducerWait(timeoutUs int64) (uint32, error) {
	if err := acquireWithTimeout(r.producerSem, timeoutUs); err != nil {
		return 0, err
	}
	idx := r.producerIndex & r.mask
	r.producerIndex++
	return idx, nil
}

// ProducerPost makes the most recently filled slot visible to the
// consumer.
func (r *Ring) ProducerPost() {
	r.consumerSem.Release(1)
}

// ConsumerWait decrements the filled-slot semaphore and returns the
// next slot index to drain.
func (r *Ring) ConsumerWait(timeoutUs int64) (uint32, error) {
	if err := acquireWithTimeout(r.consumerSem, timeoutUs); err != nil {
		return 0, err
	}
	idx := r.consumerIndex & r.mask
	r.consumerIndex++
	return idx, nil
}

// ConsumerPost returns the most recently drained slot to the producer.
func (r *Ring) ConsumerPost() {
	r.producerSem.Release(1)
}

// acquireWithTimeout implements spec.md §4.3's timeout_us semantics on
// top of a weighted semaphore's single-unit acquire. EINTR has no
// direct analog in Go's scheduler; context.Canceled from a spurious
// wakeup is retried the same way the original retries EINTR.
func acquireWithTimeout(sem *semaphore.Weighted, timeoutUs int64) error {
	switch {
	case timeoutUs < 0:
		return sem.Acquire(context.Background(), 1)
	case timeoutUs == 0:
		if sem.TryAcquire(1) {
			return nil
		}
		return ErrTimedOut
	default:
		for {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutUs)*time.Microsecond)
			err := sem.Acquire(ctx, 1)
			cancel()
			if err == nil {
				return nil
			}
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrTimedOut
			}
			// context.Canceled without deadline means a spurious
			// cancellation; retry with a fresh timeout, the way EINTR is
			// retried transparently.
			continue
		}
	}
}
