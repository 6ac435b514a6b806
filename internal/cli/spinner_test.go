package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Computing layout (4 nodes, 4 edges)...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop() // must not deadlock or panic
}

func TestSpinnerSetMessageWhileRunning(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Laying out chain...")
	s.Start()
	for _, name := range []string{"diamond", "ring", "random-dag"} {
		s.SetMessage("Laying out %s...", name)
		time.Sleep(30 * time.Millisecond)
	}
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "Laying out random-dag..." {
		t.Errorf("message = %q, want last relabel", s.message)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Computing layout...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}
}

func TestSpinnerDoubleStopSafe(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Computing layout...")
	s.Start()
	s.Stop()
	s.Stop() // second stop must be a no-op
}
