// Package client is the Go SDK for the learning platform API. It keeps a
// session-lived copy of the caller's progress so pages can gate content
// without a round trip; the copy is refreshed after every write.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http  *resty.Client
	token string

	mu       sync.RWMutex
	progress []SectionProgress
	loaded   bool
}

// SectionProgress mirrors one ledger row as served by the API.
type SectionProgress struct {
	UserID       uint       `json:"userId"`
	ModuleID     uint       `json:"moduleId"`
	SectionID    string     `json:"sectionId"`
	Completed    bool       `json:"completed"`
	Score        *float64   `json:"score,omitempty"`
	TimeSpent    int        `json:"timeSpent"`
	LastAccessed time.Time  `json:"lastAccessed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// ProgressUpdate is the payload for one learner event.
type ProgressUpdate struct {
	ModuleID  uint     `json:"moduleId"`
	CourseID  uint     `json:"courseId"`
	SectionID string   `json:"sectionId"`
	TimeSpent int      `json:"timeSpent"`
	Completed bool     `json:"completed"`
	QuizScore *float64 `json:"quizScore,omitempty"`
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []SectionProgress `json:"data"`
}

func New(baseURL, token string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:  httpClient,
		token: token,
	}
}

// UpdateProgress posts one event and refreshes the local copy from the
// server. The copy is never patched locally; the server owns the merge
// rules and the refetch picks up whatever it decided.
func (c *Client) UpdateProgress(ctx context.Context, upd ProgressUpdate) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(upd).
		Post("/api/learning-path/progress")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("progress update rejected: %s", resp.Status())
	}

	return c.Refresh(ctx)
}

// Refresh refetches the full progress list.
func (c *Client) Refresh(ctx context.Context) error {
	var body envelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetResult(&body).
		Get("/api/learning-path/progress")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("progress fetch rejected: %s", resp.Status())
	}

	c.mu.Lock()
	c.progress = body.Data
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Client) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// SectionCompleted reports whether the cached copy marks the section done.
func (c *Client) SectionCompleted(ctx context.Context, moduleID uint, sectionID string) (bool, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.progress {
		if p.ModuleID == moduleID && p.SectionID == sectionID {
			return p.Completed, nil
		}
	}
	return false, nil
}

// ModuleCompletion returns the share of the given topic sections that are
// completed, as a percentage.
func (c *Client) ModuleCompletion(ctx context.Context, moduleID uint, topicSections []string) (float64, error) {
	if len(topicSections) == 0 {
		return 0, nil
	}
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	done := make(map[string]bool, len(c.progress))
	for _, p := range c.progress {
		if p.ModuleID == moduleID && p.Completed {
			done[p.SectionID] = true
		}
	}

	completed := 0
	for _, s := range topicSections {
		if done[s] {
			completed++
		}
	}
	return float64(completed) / float64(len(topicSections)) * 100, nil
}

// QuizUnlocked reports whether every topic section of the module is
// completed, which is the gate for taking the module quiz.
func (c *Client) QuizUnlocked(ctx context.Context, moduleID uint, topicSections []string) (bool, error) {
	pct, err := c.ModuleCompletion(ctx, moduleID, topicSections)
	if err != nil {
		return false, err
	}
	return len(topicSections) > 0 && pct >= 100, nil
}
