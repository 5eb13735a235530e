package notification

import (
	"sync"
	"time"
)

// DefaultFeedSize is how many entries are kept per user.
const DefaultFeedSize = 100

// Activity is one entry in a user's activity feed.
type Activity struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	TaskID  string    `json:"taskId,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed keeps the most recent activities per user in memory.
type Feed struct {
	mu      sync.RWMutex
	size    int
	entries map[string][]Activity
	total   int64
}

// NewFeed creates a feed that keeps at most size entries per user.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		size:    size,
		entries: make(map[string][]Activity),
	}
}

// Add appends an activity for user, dropping the oldest beyond the limit.
func (f *Feed) Add(user string, a Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := append(f.entries[user], a)
	if len(list) > f.size {
		list = append([]Activity(nil), list[len(list)-f.size:]...)
	}
	f.entries[user] = list
	f.total++
}

// List returns up to limit activities for user, newest first.
// A non-positive limit returns everything kept.
func (f *Feed) List(user string, limit int) []Activity {
	f.mu.RLock()
	defer f.mu.RUnlock()

	list := f.entries[user]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	result := make([]Activity, 0, limit)
	for i := len(list) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, list[i])
	}
	return result
}

// Stats reports how many users have entries and how many were recorded.
func (f *Feed) Stats() (users int, total int64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.entries), f.total
}
