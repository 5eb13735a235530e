package task

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/task-manager/domain/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "-createdAt"

	// StatusAll disables status filtering.
	StatusAll = "all"
)

// SortField names a sortable task attribute as clients spell it.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortTitle     SortField = "title"
	SortStatus    SortField = "status"
)

var sortFields = map[SortField]bool{
	SortCreatedAt: true,
	SortUpdatedAt: true,
	SortDueDate:   true,
	SortPriority:  true,
	SortTitle:     true,
	SortStatus:    true,
}

// SortKey is one ordering term.
type SortKey struct {
	Field SortField
	Desc  bool
}

// ListParams carries the raw list query string values.
type ListParams struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Q        string `json:"q,omitempty"`
	DueFrom  string `json:"dueFrom,omitempty"`
	DueTo    string `json:"dueTo,omitempty"`
	Page     string `json:"page,omitempty"`
	Limit    string `json:"limit,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

// Query is a validated list request. Zero-valued filters match everything.
type Query struct {
	Status   Status
	Priority Priority
	Text     string
	DueFrom  *time.Time
	DueTo    *time.Time
	Page     int
	Limit    int
	Sort     []SortKey
}

// Offset is the number of matching rows skipped before this page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseListParams validates p. Invalid enums and dates are rejected while
// page and limit are clamped.
func ParseListParams(p ListParams) (Query, error) {
	q := Query{
		Page:  clamp(atoiOr(p.Page, DefaultPage), 1, math.MaxInt32),
		Limit: clamp(atoiOr(p.Limit, DefaultLimit), 1, MaxLimit),
		Text:  strings.TrimSpace(p.Q),
	}

	if p.Status != "" && p.Status != StatusAll {
		status, err := ParseStatus(p.Status)
		if err != nil {
			return Query{}, err
		}
		q.Status = status
	}

	if p.Priority != "" {
		priority, err := ParsePriority(p.Priority)
		if err != nil {
			return Query{}, err
		}
		q.Priority = priority
	}

	if strings.TrimSpace(p.DueFrom) != "" {
		from, _, err := ParseDate(p.DueFrom)
		if err != nil {
			return Query{}, apperr.Validation("Invalid dueFrom date")
		}
		q.DueFrom = &from
	}

	if strings.TrimSpace(p.DueTo) != "" {
		to, dateOnly, err := ParseDate(p.DueTo)
		if err != nil {
			return Query{}, apperr.Validation("Invalid dueTo date")
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		q.DueTo = &to
	}

	sort, err := ParseSort(p.Sort)
	if err != nil {
		return Query{}, err
	}
	q.Sort = sort

	return q, nil
}

// ParseSort reads a comma-separated list of field names, each optionally
// prefixed with "-" for descending order.
func ParseSort(s string) ([]SortKey, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultSort
	}

	var keys []SortKey
	seen := make(map[SortField]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key := SortKey{}
		if strings.HasPrefix(part, "-") {
			key.Desc = true
			part = part[1:]
		} else {
			part = strings.TrimPrefix(part, "+")
		}
		key.Field = SortField(part)
		if !sortFields[key.Field] {
			return nil, apperr.Validation("Invalid sort field")
		}
		if seen[key.Field] {
			continue
		}
		seen[key.Field] = true
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return ParseSort(DefaultSort)
	}
	return keys, nil
}

// Page is one page of list results.
type Page struct {
	Data       []Task `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// NewPage wraps rows with the pagination envelope for q.
func NewPage(rows []Task, total int64, q Query) Page {
	if rows == nil {
		rows = []Task{}
	}
	return Page{
		Data:       rows,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: TotalPages(total, q.Limit),
	}
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
