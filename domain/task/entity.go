package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperr"
)

const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities from low to high.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// ParsePriority validates a client-supplied priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", apperr.Validation("Invalid priority")
	}
}

// Status represents the state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus validates a client-supplied status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusCompleted:
		return st, nil
	default:
		return "", apperr.Validation("Invalid status")
	}
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Owner       string     `gorm:"index;not null;type:text" json:"owner"`
	Title       string     `gorm:"not null;size:120" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`
	Priority    Priority   `gorm:"type:text;not null;default:medium;index" json:"priority"`
	Status      Status     `gorm:"type:text;not null;default:pending;index" json:"status"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// CreateInput is the client payload for a new task. Status is not accepted;
// new tasks always start pending.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// New validates in and builds a pending task for owner.
func New(id, owner string, in CreateInput, now time.Time) (*Task, error) {
	title, err := NormalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	description, err := NormalizeDescription(in.Description)
	if err != nil {
		return nil, err
	}

	priority := PriorityMedium
	if in.Priority != "" {
		if priority, err = ParsePriority(in.Priority); err != nil {
			return nil, err
		}
	}

	var due *time.Time
	if strings.TrimSpace(in.DueDate) != "" {
		t, _, err := ParseDate(in.DueDate)
		if err != nil {
			return nil, apperr.Validation("Invalid dueDate")
		}
		due = &t
	}

	now = now.UTC()
	return &Task{
		ID:          id,
		Owner:       owner,
		Title:       title,
		Description: description,
		DueDate:     due,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeTitle trims the title and checks its length.
func NormalizeTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if title == "" {
		return "", apperr.Validation("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", apperr.Validation("Title must be at most 120 characters")
	}
	return title, nil
}

// NormalizeDescription trims the description and checks its length.
func NormalizeDescription(s string) (string, error) {
	description := strings.TrimSpace(s)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", apperr.Validation("Description must be at most 2000 characters")
	}
	return description, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date and
// returns the instant in UTC. dateOnly reports whether s had no time part.
// Timestamps without a zone are read as UTC.
func ParseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), true, nil
	}
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, err
}
