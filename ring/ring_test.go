package ring

import (
	"sync"
	"testing"
)

func TestProducerConsumerOrder(t *testing.T) {
	r := New(8, 4)
	const n = 100

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			idx, err := r.ProducerWait(-1)
			if err != nil {
				t.Errorf("ProducerWait: %v", err)
				return
			}
			item := r.At(idx)
			item[0] = byte(i)
			item[1] = byte(i >> 8)
			r.ProducerPost()
		}
	}()

	seen := make([]int, 0, n)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			idx, err := r.ConsumerWait(-1)
			if err != nil {
				t.Errorf("ConsumerWait: %v", err)
				return
			}
			item := r.At(idx)
			v := int(item[0]) | int(item[1])<<8
			seen = append(seen, v)
			r.ConsumerPost()
		}
	}()

	wg.Wait()

	if len(seen) != n {
		t.Fatalf("consumed %d items, want %d", len(seen), n)
	}
	for i, v := range seen {
		if v != i {
			t.Fatalf("item %d out of order: got %d", i, v)
		}
	}
}

func TestConsumerNonBlockingEmpty(t *testing.T) {
	r := New(4, 4)
	if _, err := r.ConsumerWait(0); err != ErrTimedOut {
		t.Fatalf("ConsumerWait(0) on empty ring = %v, want ErrTimedOut", err)
	}
}

func TestProducerWaitFillsCapacity(t *testing.T) {
	r := New(4, 4)
	for i := 0; i < 4; i++ {
		if _, err := r.ProducerWait(0); err != nil {
			t.Fatalf("ProducerWait(0) slot %d: %v", i, err)
		}
	}
	if _, err := r.ProducerWait(0); err != ErrTimedOut {
		t.Fatalf("ProducerWait(0) on full ring = %v, want ErrTimedOut", err)
	}
}

func TestCapacityRoundsToPowerOfTwo(t *testing.T) {
	r := New(5, 4)
	if r.Capacity() != 8 {
		t.Fatalf("Capacity() = %d, want 8", r.Capacity())
	}
}
