package task

import (
	"testing"
	"time"

	"github.com/example/task-manager/domain/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParamsDefaults(t *testing.T) {
	q, err := ParseListParams(ListParams{})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, Status(""), q.Status)
	assert.Equal(t, Priority(""), q.Priority)
	assert.Nil(t, q.DueFrom)
	assert.Nil(t, q.DueTo)
	assert.Equal(t, []SortKey{{Field: SortCreatedAt, Desc: true}}, q.Sort)
	assert.Equal(t, 0, q.Offset())
}

func TestParseListParamsClampsPaging(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"0", "500", 1, 100},
		{"-3", "0", 1, 1},
		{"2", "25", 2, 25},
		{"abc", "xyz", 1, 10},
		{"99999999999999999999", "100", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.page+"/"+tt.limit, func(t *testing.T) {
			q, err := ParseListParams(ListParams{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestParseListParamsFilters(t *testing.T) {
	q, err := ParseListParams(ListParams{
		Status:   "completed",
		Priority: "high",
		Q:        "  milk ",
		DueFrom:  "2025-01-01",
		DueTo:    "2025-01-31",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, q.Status)
	assert.Equal(t, PriorityHigh, q.Priority)
	assert.Equal(t, "milk", q.Text)
	require.NotNil(t, q.DueFrom)
	require.NotNil(t, q.DueTo)
	assert.True(t, q.DueFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, q.DueTo.Equal(time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)))
}

func TestParseListParamsStatusAll(t *testing.T) {
	q, err := ParseListParams(ListParams{Status: "all"})
	require.NoError(t, err)
	assert.Equal(t, Status(""), q.Status)
}

func TestParseListParamsRejects(t *testing.T) {
	tests := []struct {
		name    string
		params  ListParams
		wantMsg string
	}{
		{"status", ListParams{Status: "done"}, "Invalid status"},
		{"priority", ListParams{Priority: "urgent"}, "Invalid priority"},
		{"dueFrom", ListParams{DueFrom: "yesterday"}, "Invalid dueFrom date"},
		{"dueTo", ListParams{DueTo: "2025-02-30"}, "Invalid dueTo date"},
		{"sort", ListParams{Sort: "-owner"}, "Invalid sort field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListParams(tt.params)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
			assert.Equal(t, tt.wantMsg, apperr.From(err).Message)
		})
	}
}

func TestParseSort(t *testing.T) {
	keys, err := ParseSort("priority, -dueDate,,+title,priority")
	require.NoError(t, err)
	assert.Equal(t, []SortKey{
		{Field: SortPriority},
		{Field: SortDueDate, Desc: true},
		{Field: SortTitle},
	}, keys)

	keys, err = ParseSort(" , ")
	require.NoError(t, err)
	assert.Equal(t, []SortKey{{Field: SortCreatedAt, Desc: true}}, keys)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{250, 100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestNewPageNeverReturnsNilData(t *testing.T) {
	page := NewPage(nil, 0, Query{Page: 1, Limit: 10})
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}
