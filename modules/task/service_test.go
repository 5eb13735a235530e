package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// newTestService returns a service over a fresh in-memory store whose clock
// advances one second per call, so creation order is observable.
func newTestService(t *testing.T) *TaskService {
	t.Helper()

	db, err := database.Open(database.Memory, false, &domain.Task{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	svc := NewTaskService(NewTaskRepository(db))
	clock := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func mustCreate(t *testing.T, svc *TaskService, owner string, in domain.CreateInput) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return task
}

func TestTaskService_Create(t *testing.T) {
	svc := newTestService(t)

	task := mustCreate(t, svc, alice, domain.CreateInput{Title: "Buy milk", Priority: "high"})
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, alice, task.Owner)
	_, err := uuid.Parse(task.ID)
	assert.NoError(t, err)

	stored, err := svc.Get(context.Background(), alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, stored.Title)
}

func TestTaskService_CreateTitleBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, n := range []int{1, 120} {
		_, err := svc.Create(ctx, alice, domain.CreateInput{Title: strings.Repeat("t", n)})
		assert.NoError(t, err, "length %d", n)
	}
	for _, n := range []int{0, 121} {
		_, err := svc.Create(ctx, alice, domain.CreateInput{Title: strings.Repeat("t", n)})
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err), "length %d", n)
	}

	page, err := svc.List(ctx, alice, domain.ListParams{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total, "validation failures never reach the store")
}

func TestTaskService_OwnershipIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := mustCreate(t, svc, alice, domain.CreateInput{Title: "Private"})

	_, err := svc.Get(ctx, bob, task.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.Update(ctx, bob, task.ID, domain.Patch{Title: domain.Some("Hijacked")})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.Toggle(ctx, bob, task.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.Delete(ctx, bob, task.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	page, err := svc.List(ctx, bob, domain.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	still, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", still.Title)
	assert.Equal(t, domain.StatusPending, still.Status)
}

func TestTaskService_InvalidID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, alice, "not-a-uuid")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Toggle(ctx, alice, "123")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Get(ctx, alice, uuid.New().String())
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestTaskService_MissingOwner(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.List(context.Background(), "", domain.ListParams{})
	assert.Equal(t, apperr.CodeUnauthorized, apperr.CodeOf(err))
}

func TestTaskService_ToggleIsTwoCycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := mustCreate(t, svc, alice, domain.CreateInput{Title: "Flip"})

	once, err := svc.Toggle(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, once.Status)
	assert.True(t, once.UpdatedAt.After(task.UpdatedAt))

	twice, err := svc.Toggle(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, twice.Status)
}

func TestTaskService_Update(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := mustCreate(t, svc, alice, domain.CreateInput{Title: "Draft", Description: "old", DueDate: "2025-02-01"})

	updated, err := svc.Update(ctx, alice, task.ID, domain.Patch{
		Title:    domain.Some("  Final "),
		Priority: domain.Some("low"),
		Status:   domain.Some("completed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "old", updated.Description, "absent fields stay untouched")
	require.NotNil(t, updated.DueDate)

	cleared, err := svc.Update(ctx, alice, task.ID, domain.Patch{DueDate: domain.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)

	unchanged, err := svc.Update(ctx, alice, task.ID, domain.Patch{})
	require.NoError(t, err)
	assert.Equal(t, cleared.UpdatedAt, unchanged.UpdatedAt)

	_, err = svc.Update(ctx, alice, task.ID, domain.Patch{Priority: domain.Some("urgent")})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.Update(ctx, alice, uuid.New().String(), domain.Patch{Title: domain.Some("x")})
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestTaskService_DeleteThenGetIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	task := mustCreate(t, svc, alice, domain.CreateInput{Title: "Gone"})

	deleted, err := svc.Delete(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = svc.Get(ctx, alice, task.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.Delete(ctx, alice, task.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestTaskService_ListDue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	early := mustCreate(t, svc, alice, domain.CreateInput{Title: "early", DueDate: "2025-03-01T09:00:00Z"})
	inWindow := mustCreate(t, svc, bob, domain.CreateInput{Title: "in window", DueDate: "2025-03-01T10:00:00Z"})
	done := mustCreate(t, svc, alice, domain.CreateInput{Title: "done", DueDate: "2025-03-01T10:30:00Z"})
	mustCreate(t, svc, alice, domain.CreateInput{Title: "later", DueDate: "2025-03-01T12:00:00Z"})
	mustCreate(t, svc, alice, domain.CreateInput{Title: "no due date"})

	_, err := svc.Toggle(ctx, alice, done.ID)
	require.NoError(t, err)

	after := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	tasks, err := svc.ListDue(ctx, after, until)
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, inWindow.ID, tasks[0].ID, "window is (after, until], pending only, across owners")
	assert.NotEqual(t, early.ID, tasks[0].ID)

	_, err = svc.ListDue(ctx, until, after)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}
