package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/google/uuid"
)

var (
	errTaskNotFound  = apperr.NotFound("Task not found")
	errInvalidTaskID = apperr.Validation("Invalid task id")
	errMissingOwner  = apperr.Unauthorized("Missing task owner")
)

// TaskService implements the task operations on top of the repository.
// All input is validated before the store is touched.
type TaskService struct {
	repo *TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo *TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new pending task for owner.
func (s *TaskService) Create(ctx context.Context, owner string, in domain.CreateInput) (*domain.Task, error) {
	if owner == "" {
		return nil, errMissingOwner
	}
	task, err := domain.New(uuid.New().String(), owner, in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	return task, nil
}

// Get returns the owner's task. Tasks of other owners are reported as not found.
func (s *TaskService) Get(ctx context.Context, owner, id string) (*domain.Task, error) {
	id, err := s.checkRef(owner, id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, owner, id)
}

// List returns one page of the owner's tasks.
func (s *TaskService) List(ctx context.Context, owner string, params domain.ListParams) (*domain.Page, error) {
	if owner == "" {
		return nil, errMissingOwner
	}
	q, err := domain.ParseListParams(params)
	if err != nil {
		return nil, err
	}

	tasks, total, err := s.repo.List(ctx, owner, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	page := domain.NewPage(tasks, total, q)
	return &page, nil
}

// Update applies a partial update. An empty patch returns the task unchanged.
func (s *TaskService) Update(ctx context.Context, owner, id string, patch domain.Patch) (*domain.Task, error) {
	id, err := s.checkRef(owner, id)
	if err != nil {
		return nil, err
	}
	changes, err := patch.Changes()
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return s.find(ctx, owner, id)
	}

	if err := s.repo.Update(ctx, owner, id, changes, s.now()); err != nil {
		return nil, s.storeError("update", err)
	}
	return s.find(ctx, owner, id)
}

// Toggle flips the task between pending and completed.
func (s *TaskService) Toggle(ctx context.Context, owner, id string) (*domain.Task, error) {
	id, err := s.checkRef(owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Toggle(ctx, owner, id, s.now()); err != nil {
		return nil, s.storeError("toggle", err)
	}
	return s.find(ctx, owner, id)
}

// Delete removes the task and returns what was deleted.
func (s *TaskService) Delete(ctx context.Context, owner, id string) (*domain.Task, error) {
	id, err := s.checkRef(owner, id)
	if err != nil {
		return nil, err
	}
	task, err := s.find(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return nil, s.storeError("delete", err)
	}
	return task, nil
}

// ListDue returns pending tasks that fell due in (after, until].
func (s *TaskService) ListDue(ctx context.Context, after, until time.Time) ([]domain.Task, error) {
	if !until.After(after) {
		return nil, apperr.Validation("Invalid due window")
	}
	tasks, err := s.repo.ListDue(ctx, after.UTC(), until.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return tasks, nil
}

// checkRef validates the owner and id and returns the id in canonical form.
func (s *TaskService) checkRef(owner, id string) (string, error) {
	if owner == "" {
		return "", errMissingOwner
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", errInvalidTaskID
	}
	return parsed.String(), nil
}

func (s *TaskService) find(ctx context.Context, owner, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, s.storeError("find", err)
	}
	return task, nil
}

func (s *TaskService) storeError(op string, err error) error {
	if errors.Is(err, ErrTaskNotFound) {
		return errTaskNotFound
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
