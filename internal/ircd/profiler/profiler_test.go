package profiler

import (
	"testing"
	"time"
)

func TestLeaveSliceAccumulatesAwake(t *testing.T) {
	Configure(Settings{})
	EnterSlice()
	time.Sleep(time.Millisecond)
	var awake time.Duration
	if LeaveSlice("ctx", &awake) {
		t.Fatal("expected no interrupt with zero thresholds")
	}
	if awake <= 0 {
		t.Fatalf("expected awake to accumulate, got %v", awake)
	}
}

func TestLeaveSliceInterruptThreshold(t *testing.T) {
	Configure(Settings{SliceInterrupt: time.Microsecond})
	t.Cleanup(func() { Configure(Settings{}) })

	EnterSlice()
	time.Sleep(2 * time.Millisecond)
	var awake time.Duration
	if !LeaveSlice("ctx", &awake) {
		t.Fatal("expected slice_interrupt threshold to trip")
	}
}

func TestCheckYieldStackAssertion(t *testing.T) {
	Configure(Settings{StackUsageAssertion: 0.5})
	t.Cleanup(func() { Configure(Settings{}) })

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic when stack usage assertion threshold is crossed")
		}
	}()
	CheckYield("ctx", 600, 1000)
}
