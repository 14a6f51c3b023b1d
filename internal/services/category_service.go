package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"auction-house/internal/aucterrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
)

// CategoryService handles category management
type CategoryService struct {
	repo *repository.Repository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo *repository.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListCategories returns all categories ordered by name
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory creates a new category with a unique name
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", aucterrors.ErrValidation)
	}

	category := &models.Category{Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: category %q already exists", aucterrors.ErrConflict, name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Its listings are detached, not deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uint) error {
	if _, err := s.repo.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", aucterrors.ErrNotFound, categoryID)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}
	return s.repo.DeleteCategory(ctx, categoryID)
}
