package service

import (
	"crypto_edu_backend/internal/model"
	"time"
)

// ProgressEvent is one normalized incoming progress event, either a topic
// read or a scored quiz completion.
type ProgressEvent struct {
	UserID    uint
	ModuleID  uint
	SectionID string
	Completed bool
	Score     *float64
	TimeSpent int
}

// MergeProgress folds an incoming event into the existing ledger row (nil
// when the triple has never been seen) and returns the row to store. It is
// a pure function so the ledger's invariants can be tested without a
// database:
//
//   - completion is sticky: a later non-completing event never downgrades
//     a completed row
//   - CompletedAt is set once, on the first completing event, and never
//     cleared or moved afterwards
//   - TimeSpent accumulates additively and is never reset
//   - LastAccessed is refreshed on every event regardless of outcome
func MergeProgress(existing *model.SectionProgress, event ProgressEvent, now time.Time) model.SectionProgress {
	merged := model.SectionProgress{
		UserID:    event.UserID,
		ModuleID:  event.ModuleID,
		SectionID: event.SectionID,
	}

	if existing != nil {
		merged = *existing
	}

	merged.Completed = merged.Completed || event.Completed
	merged.TimeSpent += event.TimeSpent
	merged.LastAccessed = now

	if event.Score != nil {
		score := *event.Score
		merged.Score = &score
	}

	if event.Completed && merged.CompletedAt == nil {
		completedAt := now
		merged.CompletedAt = &completedAt
	}

	return merged
}
