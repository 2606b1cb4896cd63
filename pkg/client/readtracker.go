package client

import (
	"context"
	"sync"
	"time"
)

// readCompletionPercent is how far down the page a reader must scroll
// before the topic counts as read.
const readCompletionPercent = 95.0

// ReadTracker watches scroll positions for one topic section and records
// a completion event exactly once, when the reader first passes the
// completion threshold. Further observations are ignored.
type ReadTracker struct {
	client    *Client
	moduleID  uint
	courseID  uint
	sectionID string
	startedAt time.Time

	mu    sync.Mutex
	fired bool
}

func NewReadTracker(c *Client, moduleID, courseID uint, sectionID string) *ReadTracker {
	return &ReadTracker{
		client:    c,
		moduleID:  moduleID,
		courseID:  courseID,
		sectionID: sectionID,
		startedAt: time.Now(),
	}
}

// Observe takes the current scroll position as a percentage of the page.
// The first observation at or past the threshold posts the completion
// event with the time spent since the tracker was created.
func (t *ReadTracker) Observe(ctx context.Context, scrollPercent float64) error {
	t.mu.Lock()
	if t.fired || scrollPercent < readCompletionPercent {
		t.mu.Unlock()
		return nil
	}
	t.fired = true
	elapsed := int(time.Since(t.startedAt).Seconds())
	t.mu.Unlock()

	err := t.client.UpdateProgress(ctx, ProgressUpdate{
		ModuleID:  t.moduleID,
		CourseID:  t.courseID,
		SectionID: t.sectionID,
		TimeSpent: elapsed,
		Completed: true,
	})
	if err != nil {
		// Allow a retry on the next scroll event.
		t.mu.Lock()
		t.fired = false
		t.mu.Unlock()
	}
	return err
}

// Fired reports whether the completion event has been recorded.
func (t *ReadTracker) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
