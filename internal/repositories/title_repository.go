package repositories

import (
	"context"

	"yamdb/internal/models"
)

// TitleFilter narrows a title listing. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

// TitleRepository defines the interface for title data access. Titles are
// always returned with their genres, category and computed rating.
type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Title, error)
	Create(ctx context.Context, title *models.Title) error
	// Update writes the scalar fields and category. A nil genres slice keeps
	// the current genres; a non-nil one replaces them.
	Update(ctx context.Context, title *models.Title, genres []models.Genre) error
	// Delete removes the title with its reviews and their comments.
	Delete(ctx context.Context, id uint) error
}
