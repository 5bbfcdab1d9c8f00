package repositories

import (
	"context"

	"yamdb/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, page Page) ([]models.Category, int64, error)
	// Delete removes the category; titles in it are left without a category.
	Delete(ctx context.Context, slug string) error
}

// GenreRepository defines the interface for genre data access.
type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	// GetBySlugs resolves every slug; an unknown slug is a validation error.
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, page Page) ([]models.Genre, int64, error)
	// Delete removes the genre and detaches it from all titles.
	Delete(ctx context.Context, slug string) error
}
