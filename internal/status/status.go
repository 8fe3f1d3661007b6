// Package status tracks the analysis server's outstanding index-job count
// and renders it as a one-line status text on a poll tick, the way an editor
// status bar would consume it.
package status

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Tracker holds the latest job count reported by the server's progress
// notifications. Safe for concurrent use; notifications arrive on the RPC
// read loop.
type Tracker struct {
	jobs atomic.Int64
}

// SetJobs records the server-reported outstanding job count.
func (t *Tracker) SetJobs(jobs int) {
	if jobs < 0 {
		jobs = 0
	}
	t.jobs.Store(int64(jobs))
}

// Jobs returns the last reported count.
func (t *Tracker) Jobs() int {
	return int(t.jobs.Load())
}

// Text renders the status line.
func (t *Tracker) Text() string {
	jobs := t.Jobs()
	if jobs == 0 {
		return "idle"
	}
	return fmt.Sprintf("indexing: %d jobs", jobs)
}

// Poller invokes onUpdate whenever the rendered status text changes between
// ticks. Run blocks until the context is done.
type Poller struct {
	Tracker  *Tracker
	Interval time.Duration
	OnUpdate func(text string)
}

func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			text := p.Tracker.Text()
			if text != last {
				last = text
				if p.OnUpdate != nil {
					p.OnUpdate(text)
				}
			}
		}
	}
}
