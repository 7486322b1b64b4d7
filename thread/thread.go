// Package thread pins the calling goroutine to its own kernel thread and
// optionally elevates its scheduling priority. It is used by the producer
// and consumer sides of a ring.Ring and by a stream.Stream's owning
// goroutine: spec.md's one-owner-per-object discipline only holds if the
// goroutine touching an object never migrates to a different OS thread
// mid-operation.
package thread

import (
	"runtime"
	"syscall"
	"unsafe"
)

// Realtime locks the calling goroutine to its own kernel thread and elevates that
// thread's priority to realtime. It sets the round-robin schduling policy and uses
// priority level 10 (somewhere in the lower middle of the range).
func Realtime() error {
	return RealtimePriority(10)
}

// RealtimePriority locks the calling goroutine to its own kernel thread and
// sets the round-robin scheduling policy at the given priority. Typical
// callers are a DMA-completion consumer goroutine (higher priority, to
// drain the ring.Ring promptly) and an application producer/consumer
// goroutine (lower priority).
func RealtimePriority(priority int) error {
	// First pin goroutine to its own kernel thread.
	runtime.LockOSThread()
	// Get the ID of the thread.
	tid := syscall.Gettid()
	// Give this thread realtime priority.
	res, _, err := syscall.RawSyscall(syscall.SYS_SCHED_SETSCHEDULER, uintptr(tid),
		uintptr(RR), uintptr(unsafe.Pointer(&schedParam{priority})))
	if res == 0 {
		return nil
	}
	return err
}

const FIFO = 1 // fifo scheduling policy
const RR = 2   // round-robin scheduling policy

type schedParam struct {
	Priority int
}
