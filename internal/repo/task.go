package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhub/taskhub/internal/models"
)

// TaskFilter narrows and orders task listings. Zero values mean "no filter".
type TaskFilter struct {
	Status     string // all, pending, completed
	Priority   string
	CategoryID *uint
	SortBy     string // created_at, priority, due_date, status
	Order      string // asc, desc
	Limit      int
	Offset     int
}

// TaskStats aggregates a user's task counters.
type TaskStats struct {
	Total     int64
	Completed int64
	Pending   int64
}

// TaskRepository handles CRUD for tasks. Every query is scoped by owner id,
// so a foreign task is indistinguishable from a missing one.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND id = ?", userID, taskID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, userID uint, f TaskFilter) ([]models.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)

	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []models.Task
	err := q.Preload("Category").
		Order(orderClause(f.SortBy, f.Order)).
		Limit(f.Limit).Offset(f.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func orderClause(sortBy, order string) string {
	dir := "desc"
	if order == "asc" {
		dir = "asc"
	}
	switch sortBy {
	case "priority":
		// semantic order, not lexicographic
		return "CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 WHEN 'high' THEN 2 END " + dir
	case "due_date":
		return "due_date " + dir
	case "status":
		return "status " + dir
	default:
		return "created_at " + dir
	}
}

func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Stats(ctx context.Context, userID uint) (*TaskStats, error) {
	var s TaskStats
	base := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
	if err := base.Count(&s.Total).Error; err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&s.Completed).Error
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}
	s.Pending = s.Total - s.Completed
	return &s, nil
}
