package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskhub/taskhub/internal/models"
)

// CategoryWithCount is a category row joined with its task counter.
type CategoryWithCount struct {
	models.Category
	TasksCount int64 `json:"tasks_count"`
}

// CategoryRepository handles CRUD for categories, always scoped by owner id.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, categoryID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, userID uint, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) List(ctx context.Context, userID uint) ([]CategoryWithCount, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		var count int64
		err := r.db.WithContext(ctx).Model(&models.Task{}).
			Where("category_id = ?", category.ID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("count category tasks: %w", err)
		}
		out = append(out, CategoryWithCount{Category: category, TasksCount: count})
	}
	return out, nil
}

func (r *CategoryRepository) Save(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return err
	}
	return nil
}

// Delete removes the category and detaches its tasks in one transaction.
// Tasks survive with category_id set to NULL, they are never cascaded.
func (r *CategoryRepository) Delete(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("category_id = ? AND user_id = ?", category.ID, category.UserID).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}
		if err := tx.Delete(category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
