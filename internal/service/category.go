package service

import (
	"context"

	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
)

// CategoryService owns category CRUD with the per-owner name uniqueness
// rule and the detach-on-delete behavior for linked tasks.
type CategoryService struct {
	Categories *repo.CategoryRepository
}

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

func (s *CategoryService) Create(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	// advisory pre-check; the composite unique index decides races
	if _, err := s.Categories.FindByName(ctx, userID, in.Name); err == nil {
		return nil, ErrCategoryExists
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	category := models.Category{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.Categories.Create(ctx, &category); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID uint) (*models.Category, error) {
	category, err := s.Categories.FindByID(ctx, userID, categoryID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uint) ([]repo.CategoryWithCount, error) {
	return s.Categories.List(ctx, userID)
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID uint, in CategoryPatch) (*models.Category, error) {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != category.Name {
		if _, err := s.Categories.FindByName(ctx, userID, *in.Name); err == nil {
			return nil, ErrCategoryExists
		} else if !repo.IsNotFound(err) {
			return nil, err
		}
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}

	if err := s.Categories.Save(ctx, category); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uint) error {
	category, err := s.Get(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	return s.Categories.Delete(ctx, category)
}
