package task

import (
	"context"
	"fmt"
	"testing"

	domain "github.com/example/task-manager/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func list(t *testing.T, svc *TaskService, owner string, params domain.ListParams) *domain.Page {
	t.Helper()
	page, err := svc.List(context.Background(), owner, params)
	require.NoError(t, err)
	return page
}

func seedQueryFixtures(t *testing.T, svc *TaskService) {
	t.Helper()
	ctx := context.Background()

	fixtures := []struct {
		title, description, priority, due string
		complete                          bool
	}{
		{"Buy milk", "from the corner shop", "high", "2025-01-10", true},
		{"Write report", "quarterly numbers", "medium", "2025-01-15T17:00:00Z", false},
		{"Call mom", "", "low", "", false},
		{"Pay rent", "transfer 100% of it", "high", "2025-01-31", false},
		{"Plan trip", "buy tickets", "high", "2025-02-05", true},
	}
	for _, f := range fixtures {
		task := mustCreate(t, svc, alice, domain.CreateInput{
			Title: f.title, Description: f.description, Priority: f.priority, DueDate: f.due,
		})
		if f.complete {
			_, err := svc.Toggle(ctx, alice, task.ID)
			require.NoError(t, err)
		}
	}
	mustCreate(t, svc, bob, domain.CreateInput{Title: "Buy milk too", Priority: "high"})
}

func TestList_DefaultSortIsNewestFirst(t *testing.T) {
	svc := newTestService(t)
	seedQueryFixtures(t, svc)

	page := list(t, svc, alice, domain.ListParams{})
	assert.Equal(t, []string{"Plan trip", "Pay rent", "Call mom", "Write report", "Buy milk"}, titles(page.Data))
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}

func TestList_Filters(t *testing.T) {
	svc := newTestService(t)
	seedQueryFixtures(t, svc)

	tests := []struct {
		name   string
		params domain.ListParams
		want   []string
	}{
		{
			name:   "status and priority combine",
			params: domain.ListParams{Status: "completed", Priority: "high"},
			want:   []string{"Plan trip", "Buy milk"},
		},
		{
			name:   "status all",
			params: domain.ListParams{Status: "all", Priority: "low"},
			want:   []string{"Call mom"},
		},
		{
			name:   "pending",
			params: domain.ListParams{Status: "pending"},
			want:   []string{"Pay rent", "Call mom", "Write report"},
		},
		{
			name:   "text matches title case-insensitively",
			params: domain.ListParams{Q: "BUY"},
			want:   []string{"Plan trip", "Buy milk"},
		},
		{
			name:   "text matches description",
			params: domain.ListParams{Q: "quarterly"},
			want:   []string{"Write report"},
		},
		{
			name:   "text wildcards are literal",
			params: domain.ListParams{Q: "100%"},
			want:   []string{"Pay rent"},
		},
		{
			name:   "underscore is literal",
			params: domain.ListParams{Q: "_"},
			want:   []string{},
		},
		{
			name:   "due range is inclusive and skips undated",
			params: domain.ListParams{DueFrom: "2025-01-10", DueTo: "2025-01-31", Sort: "dueDate"},
			want:   []string{"Buy milk", "Write report", "Pay rent"},
		},
		{
			name:   "date-only dueTo covers the whole day",
			params: domain.ListParams{DueTo: "2025-01-15", Sort: "dueDate"},
			want:   []string{"Buy milk", "Write report"},
		},
		{
			name:   "timestamp dueTo is exact",
			params: domain.ListParams{DueTo: "2025-01-15T16:59:59Z", Sort: "dueDate"},
			want:   []string{"Buy milk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := list(t, svc, alice, tt.params)
			assert.Equal(t, tt.want, titles(page.Data))
			assert.EqualValues(t, len(tt.want), page.Total)
		})
	}
}

func TestList_TextMatchesNonASCIICaseInsensitively(t *testing.T) {
	svc := newTestService(t)
	mustCreate(t, svc, alice, domain.CreateInput{Title: "Éclair recipe"})
	mustCreate(t, svc, alice, domain.CreateInput{Title: "Groceries", Description: "ÄPFEL und Birnen"})
	mustCreate(t, svc, alice, domain.CreateInput{Title: "Eclair plain"})

	for _, q := range []string{"Éclair", "éclair", "ÉCLAIR"} {
		t.Run(q, func(t *testing.T) {
			page := list(t, svc, alice, domain.ListParams{Q: q})
			assert.Equal(t, []string{"Éclair recipe"}, titles(page.Data))
			assert.EqualValues(t, 1, page.Total)
		})
	}

	page := list(t, svc, alice, domain.ListParams{Q: "äpfel"})
	assert.Equal(t, []string{"Groceries"}, titles(page.Data))
}

func TestList_Sort(t *testing.T) {
	svc := newTestService(t)
	seedQueryFixtures(t, svc)

	tests := []struct {
		sort string
		want []string
	}{
		{"title", []string{"Buy milk", "Call mom", "Pay rent", "Plan trip", "Write report"}},
		{"-title", []string{"Write report", "Plan trip", "Pay rent", "Call mom", "Buy milk"}},
		{"createdAt", []string{"Buy milk", "Write report", "Call mom", "Pay rent", "Plan trip"}},
		{"-priority,title", []string{"Buy milk", "Pay rent", "Plan trip", "Write report", "Call mom"}},
		{"status,-createdAt", []string{"Plan trip", "Buy milk", "Pay rent", "Call mom", "Write report"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			page := list(t, svc, alice, domain.ListParams{Sort: tt.sort})
			assert.Equal(t, tt.want, titles(page.Data))
		})
	}
}

func TestList_Pagination(t *testing.T) {
	svc := newTestService(t)
	for i := 1; i <= 23; i++ {
		mustCreate(t, svc, alice, domain.CreateInput{Title: fmt.Sprintf("task %02d", i)})
	}

	page := list(t, svc, alice, domain.ListParams{Page: "3", Limit: "10", Sort: "createdAt"})
	assert.Equal(t, []string{"task 21", "task 22", "task 23"}, titles(page.Data))
	assert.EqualValues(t, 23, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page = list(t, svc, alice, domain.ListParams{Limit: "500"})
	assert.Equal(t, 100, page.Limit)
	assert.Len(t, page.Data, 23)

	page = list(t, svc, alice, domain.ListParams{Page: "0", Limit: "5"})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.TotalPages)

	page = list(t, svc, alice, domain.ListParams{Page: "9"})
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.EqualValues(t, 23, page.Total)

	empty := list(t, svc, bob, domain.ListParams{})
	assert.EqualValues(t, 0, empty.Total)
	assert.Equal(t, 0, empty.TotalPages)
}
