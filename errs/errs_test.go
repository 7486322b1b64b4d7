package errs

import (
	"errors"
	"testing"
)

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := New(Timeout, "ring.Wait", "no data within deadline")
	if !errors.Is(err, Sentinel(Timeout)) {
		t.Error("errors.Is did not match the Timeout sentinel")
	}
	if errors.Is(err, Sentinel(IO)) {
		t.Error("errors.Is matched the wrong sentinel kind")
	}
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("short read")
	err := Wrap(IO, "stream.Recv", "transport read failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not unwrap to the wrapped cause")
	}
}

func TestErrorStringIncludesOpAndKind(t *testing.T) {
	err := New(InvalidArg, "rxfe.Plan", "unrecognized channel pattern")
	got := err.Error()
	want := "rxfe.Plan: invalid argument: unrecognized channel pattern"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
