package timesync

import "testing"

func TestObserveComputesRTTAndOffset(t *testing.T) {
	e := New()
	// Client sent a Ping at t=1000, server replied with serverTime=1050,
	// and this reply arrived at now=1020 (rtt=20, offset ~ 1050-(1000+10)=40).
	e.Observe(1000, 1050, 1020)
	if e.RTT() != 20 {
		t.Fatalf("RTT() = %d, want 20", e.RTT())
	}
	if e.Offset() != 40 {
		t.Fatalf("Offset() = %d, want 40", e.Offset())
	}
}

func TestObserveRollingAverageWindow(t *testing.T) {
	e := New()
	for i := 0; i < sampleWindow+4; i++ {
		e.Observe(int64(i*100), int64(i*100), int64(i*100+10))
	}
	if e.RTT() != 10 {
		t.Fatalf("expected stable rolling RTT of 10 once window is full, got %d", e.RTT())
	}
}

func TestServerTimeAppliesOffset(t *testing.T) {
	e := New()
	e.Observe(1000, 1050, 1020)
	if got := e.ServerTime(2000); got != 2000+e.Offset() {
		t.Fatalf("ServerTime(2000) = %d, want %d", got, 2000+e.Offset())
	}
}
