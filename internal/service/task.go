package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskhub/taskhub/internal/events"
	"github.com/taskhub/taskhub/internal/logging"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
	"github.com/taskhub/taskhub/internal/search"
)

// TaskService owns task CRUD, the completed_at transition and the
// owner-scoping rule: a task of another user surfaces as ErrNotFound.
type TaskService struct {
	Tasks      *repo.TaskRepository
	Categories *repo.CategoryRepository
	Producer   *events.Producer
	Index      *search.TaskIndex
}

type TaskInput struct {
	Title       string
	Description string
	CategoryID  *uint
	Priority    models.Priority
	DueDate     *time.Time
}

type TaskUpdate struct {
	Title         *string
	Description   *string
	CategoryID    *uint
	ClearCategory bool
	Priority      *models.Priority
	Status        *models.Status
	DueDate       *time.Time
}

func (s *TaskService) Create(ctx context.Context, userID uint, in TaskInput) (*models.Task, error) {
	if in.CategoryID != nil {
		if err := s.checkCategoryOwned(ctx, userID, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Status:      models.StatusPending,
		DueDate:     in.DueDate,
	}
	if err := s.Tasks.Create(ctx, &task); err != nil {
		return nil, err
	}

	s.index(ctx, &task)
	s.publish(ctx, userID, map[string]any{
		"type":    "task_created",
		"task_id": task.ID,
		"user_id": userID,
	})
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	task, err := s.Tasks.FindByID(ctx, userID, taskID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID uint, f repo.TaskFilter) ([]models.Task, int64, error) {
	return s.Tasks.List(ctx, userID, f)
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uint, in TaskUpdate) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		if err := s.checkCategoryOwned(ctx, userID, *in.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = in.CategoryID
		task.Category = nil
	} else if in.ClearCategory {
		task.CategoryID = nil
		task.Category = nil
	}
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.Status != nil && *in.Status != task.Status {
		task.Status = *in.Status
		if *in.Status == models.StatusCompleted {
			now := time.Now().UTC()
			task.CompletedAt = &now
			s.publish(ctx, userID, map[string]any{
				"type":    "task_completed",
				"task_id": task.ID,
				"user_id": userID,
			})
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	s.index(ctx, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if err := s.Tasks.Delete(ctx, task); err != nil {
		return err
	}
	if err := s.Index.RemoveTask(ctx, task.ID); err != nil {
		logging.FromContext(ctx).Error("search deindex error", "error", err)
	}
	s.publish(ctx, userID, map[string]any{
		"type":    "task_deleted",
		"task_id": task.ID,
		"user_id": userID,
	})
	return nil
}

func (s *TaskService) Stats(ctx context.Context, userID uint) (*repo.TaskStats, error) {
	return s.Tasks.Stats(ctx, userID)
}

func (s *TaskService) checkCategoryOwned(ctx context.Context, userID, categoryID uint) error {
	if _, err := s.Categories.FindByID(ctx, userID, categoryID); err != nil {
		if repo.IsNotFound(err) {
			return ErrCategoryNotOwned
		}
		return err
	}
	return nil
}

func (s *TaskService) index(ctx context.Context, task *models.Task) {
	if err := s.Index.IndexTask(ctx, task); err != nil {
		logging.FromContext(ctx).Error("search index error", "error", err)
	}
}

func (s *TaskService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, "task_events", fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
