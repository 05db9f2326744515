package timing

import (
	"testing"
	"time"
)

func TestThrottleBackToBack(t *testing.T) {
	c := &calls{}
	window := 100 * time.Millisecond
	th := NewThrottler(c.record, window)

	start := time.Now()
	th.Call(1)
	th.Call(2)

	if args, _ := c.snapshot(); len(args) != 1 || args[0] != 1 {
		t.Fatalf("immediate calls = %v, want [1]", args)
	}
	if !th.Pending() {
		t.Error("Pending() = false, want the second call deferred")
	}

	time.Sleep(250 * time.Millisecond)

	args, at := c.snapshot()
	if len(args) != 2 || args[1] != 2 {
		t.Fatalf("calls = %v, want [1 2]", args)
	}
	if elapsed := at[1].Sub(start); elapsed < window {
		t.Errorf("deferred call ran after %v, want at least %v", elapsed, window)
	}
}

func TestThrottleKeepsLatest(t *testing.T) {
	c := &calls{}
	th := NewThrottler(c.record, 80*time.Millisecond)

	for i := 1; i <= 5; i++ {
		th.Call(i)
	}
	time.Sleep(300 * time.Millisecond)

	args, _ := c.snapshot()
	if len(args) != 2 || args[0] != 1 || args[1] != 5 {
		t.Errorf("calls = %v, want [1 5]", args)
	}
}

func TestThrottleIdleAfterWindow(t *testing.T) {
	c := &calls{}
	th := NewThrottler(c.record, 50*time.Millisecond)

	th.Call(1)
	time.Sleep(120 * time.Millisecond)
	th.Call(2)

	if args, _ := c.snapshot(); len(args) != 2 {
		t.Errorf("calls = %v, want the second call to run immediately", args)
	}
}

func TestThrottleStop(t *testing.T) {
	c := &calls{}
	th := NewThrottler(c.record, 50*time.Millisecond)

	th.Call(1)
	th.Call(2)
	th.Stop()
	time.Sleep(150 * time.Millisecond)

	if args, _ := c.snapshot(); len(args) != 1 {
		t.Errorf("calls = %v, want the deferred call dropped", args)
	}

	th.Call(3)
	if args, _ := c.snapshot(); len(args) != 2 {
		t.Errorf("calls = %v, want an immediate call after Stop", args)
	}
}
