package service

import (
	"context"
	"fmt"
	"strings"

	"blog_api/internal/common"
	"blog_api/internal/domain/model"
	"blog_api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if verr := common.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req CategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if verr := common.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Slug = slug.Make(req.Name)
	category.Description = strings.TrimSpace(req.Description)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categoryRepo.Delete(ctx, id)
}
