package services

import (
	"context"

	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// CatalogInput is the body for creating a category or a genre.
type CatalogInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, search string, page repositories.Page) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, page)
}

func (s *CategoryService) Create(ctx context.Context, in CatalogInput) (*models.Category, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}

// GenreService handles business logic related to genres.
type GenreService struct {
	repo repositories.GenreRepository
}

// NewGenreService creates a new GenreService.
func NewGenreService(repo repositories.GenreRepository) *GenreService {
	return &GenreService{repo: repo}
}

func (s *GenreService) List(ctx context.Context, search string, page repositories.Page) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, page)
}

func (s *GenreService) Create(ctx context.Context, in CatalogInput) (*models.Genre, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

func (s *GenreService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}
