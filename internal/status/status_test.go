package status

import (
	"context"
	"testing"
	"time"
)

func TestTrackerText(t *testing.T) {
	tracker := &Tracker{}
	if got := tracker.Text(); got != "idle" {
		t.Fatalf("fresh tracker text = %q", got)
	}

	tracker.SetJobs(7)
	if got := tracker.Text(); got != "indexing: 7 jobs" {
		t.Fatalf("busy tracker text = %q", got)
	}

	tracker.SetJobs(0)
	if got := tracker.Text(); got != "idle" {
		t.Fatalf("drained tracker text = %q", got)
	}

	tracker.SetJobs(-3)
	if got := tracker.Jobs(); got != 0 {
		t.Fatalf("negative counts clamp to zero, got %d", got)
	}
}

func TestPollerEmitsOnChangeOnly(t *testing.T) {
	tracker := &Tracker{}
	tracker.SetJobs(2)

	updates := make(chan string, 8)
	poller := &Poller{
		Tracker:  tracker,
		Interval: 5 * time.Millisecond,
		OnUpdate: func(text string) { updates <- text },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(time.Second)
		for {
			select {
			case got := <-updates:
				if got == want {
					return
				}
				t.Fatalf("unexpected update %q, want %q", got, want)
			case <-deadline:
				t.Fatalf("timed out waiting for %q", want)
			}
		}
	}

	waitFor("indexing: 2 jobs")
	tracker.SetJobs(0)
	waitFor("idle")

	// Unchanged status produces no further updates.
	select {
	case got := <-updates:
		t.Fatalf("spurious update %q", got)
	case <-time.After(30 * time.Millisecond):
	}
}
