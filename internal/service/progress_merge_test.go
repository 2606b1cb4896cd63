package service

import (
	"crypto_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeProgressNewRow(t *testing.T) {
	now := time.Now()

	merged := MergeProgress(nil, ProgressEvent{
		UserID:    1,
		ModuleID:  2,
		SectionID: "what-is-bitcoin",
		Completed: true,
		TimeSpent: 120,
	}, now)

	assert.Equal(t, uint(1), merged.UserID)
	assert.Equal(t, uint(2), merged.ModuleID)
	assert.Equal(t, "what-is-bitcoin", merged.SectionID)
	assert.True(t, merged.Completed)
	assert.Equal(t, 120, merged.TimeSpent)
	assert.Equal(t, now, merged.LastAccessed)
	if assert.NotNil(t, merged.CompletedAt) {
		assert.Equal(t, now, *merged.CompletedAt)
	}
}

func TestMergeProgressCompletionIsSticky(t *testing.T) {
	first := time.Now()
	existing := MergeProgress(nil, ProgressEvent{
		UserID:    1,
		ModuleID:  1,
		SectionID: "seed-phrases",
		Completed: true,
	}, first)

	later := first.Add(time.Hour)
	merged := MergeProgress(&existing, ProgressEvent{
		UserID:    1,
		ModuleID:  1,
		SectionID: "seed-phrases",
		Completed: false,
		TimeSpent: 30,
	}, later)

	assert.True(t, merged.Completed, "a non-completing event must not downgrade a completed row")
	assert.Equal(t, later, merged.LastAccessed)
}

func TestMergeProgressCompletedAtSetOnce(t *testing.T) {
	first := time.Now()
	existing := MergeProgress(nil, ProgressEvent{
		SectionID: "defi-quiz",
		Completed: true,
	}, first)

	later := first.Add(2 * time.Hour)
	merged := MergeProgress(&existing, ProgressEvent{
		SectionID: "defi-quiz",
		Completed: true,
	}, later)

	if assert.NotNil(t, merged.CompletedAt) {
		assert.Equal(t, first, *merged.CompletedAt, "CompletedAt must keep the first completion time")
	}
}

func TestMergeProgressTimeSpentAccumulates(t *testing.T) {
	now := time.Now()
	existing := MergeProgress(nil, ProgressEvent{SectionID: "stablecoins", TimeSpent: 100}, now)

	merged := MergeProgress(&existing, ProgressEvent{SectionID: "stablecoins", TimeSpent: 45}, now.Add(time.Minute))

	assert.Equal(t, 145, merged.TimeSpent)
}

func TestMergeProgressScoreOverwritten(t *testing.T) {
	now := time.Now()
	low := 40.0
	existing := MergeProgress(nil, ProgressEvent{SectionID: "bitcoin-quiz", Score: &low}, now)

	high := 85.0
	merged := MergeProgress(&existing, ProgressEvent{SectionID: "bitcoin-quiz", Score: &high, Completed: true}, now)

	if assert.NotNil(t, merged.Score) {
		assert.Equal(t, 85.0, *merged.Score)
	}
}

func TestMergeProgressScoreKeptWhenEventHasNone(t *testing.T) {
	now := time.Now()
	score := 75.0
	existing := MergeProgress(nil, ProgressEvent{SectionID: "bitcoin-quiz", Score: &score, Completed: true}, now)

	merged := MergeProgress(&existing, ProgressEvent{SectionID: "bitcoin-quiz", TimeSpent: 10}, now.Add(time.Minute))

	if assert.NotNil(t, merged.Score) {
		assert.Equal(t, 75.0, *merged.Score)
	}
}

func TestMergeProgressIncompleteRowStaysIncomplete(t *testing.T) {
	now := time.Now()

	merged := MergeProgress(nil, ProgressEvent{
		SectionID: "lending-protocols",
		Completed: false,
		TimeSpent: 60,
	}, now)

	assert.False(t, merged.Completed)
	assert.Nil(t, merged.CompletedAt)
	var zero model.SectionProgress
	assert.Equal(t, zero.Score, merged.Score)
}
