package task

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/example/task-manager/domain/task"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when no task with the id belongs to the owner.
var ErrTaskNotFound = errors.New("task not found")

// sortColumns maps client sort fields to SQL ordering expressions.
var sortColumns = map[domain.SortField]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortDueDate:   "due_date",
	domain.SortTitle:     "title",
	domain.SortStatus:    "status",
	domain.SortPriority:  "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// TaskRepository handles task persistence using GORM. Every method that
// touches a single task is scoped by owner.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID returns the owner's task with the given id.
func (r *TaskRepository) FindByID(ctx context.Context, owner, id string) (*domain.Task, error) {
	var task domain.Task
	result := r.db.WithContext(ctx).Where("owner = ? AND id = ?", owner, id).First(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// List returns one page of the owner's tasks matching q and the total
// number of matches before paging.
func (r *TaskRepository) List(ctx context.Context, owner string, q domain.Query) ([]domain.Task, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.Task{}).Where("owner = ?", owner)
	base = applyFilters(base, q).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]domain.Task, 0, q.Limit)
	if total == 0 {
		return tasks, 0, nil
	}

	tx := base
	for _, key := range q.Sort {
		order := sortColumns[key.Field]
		if key.Desc {
			order += " DESC"
		}
		tx = tx.Order(order)
	}
	tx = tx.Order("id")

	if err := tx.Offset(q.Offset()).Limit(q.Limit).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func applyFilters(tx *gorm.DB, q domain.Query) *gorm.DB {
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		tx = tx.Where("priority = ?", q.Priority)
	}
	if q.Text != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Text)) + "%"
		tx = tx.Where(`(ulower(title) LIKE ? ESCAPE '\' OR ulower(COALESCE(description, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if q.DueFrom != nil {
		tx = tx.Where("due_date IS NOT NULL AND due_date >= ?", *q.DueFrom)
	}
	if q.DueTo != nil {
		tx = tx.Where("due_date IS NOT NULL AND due_date <= ?", *q.DueTo)
	}
	return tx
}

// Update applies column changes to the owner's task.
func (r *TaskRepository) Update(ctx context.Context, owner, id string, changes map[string]any, now time.Time) error {
	updates := make(map[string]any, len(changes)+1)
	for column, value := range changes {
		updates[column] = value
	}
	updates["updated_at"] = now

	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("owner = ? AND id = ?", owner, id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Toggle flips the status of the owner's task in a single statement.
func (r *TaskRepository) Toggle(ctx context.Context, owner, id string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("owner = ? AND id = ?", owner, id).
		Updates(map[string]any{
			"status": gorm.Expr("CASE status WHEN ? THEN ? ELSE ? END",
				domain.StatusCompleted, domain.StatusPending, domain.StatusCompleted),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes the owner's task.
func (r *TaskRepository) Delete(ctx context.Context, owner, id string) error {
	result := r.db.WithContext(ctx).Where("owner = ? AND id = ?", owner, id).Delete(&domain.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListDue returns pending tasks of every owner whose due date falls in
// (after, until], oldest due first.
func (r *TaskRepository) ListDue(ctx context.Context, after, until time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.WithContext(ctx).
		Where("status = ? AND due_date > ? AND due_date <= ?", domain.StatusPending, after, until).
		Order("due_date").Order("id").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}
