package repositories

import (
	"context"
	"fmt"

	"yamdb/internal/apperror"
	"yamdb/internal/models"

	"gorm.io/gorm"
)

type catalogEntry interface {
	models.Category | models.Genre
}

func createEntry[T catalogEntry](ctx context.Context, db *gorm.DB, entry *T, resource string) error {
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapError(err, "create "+resource, resource, resource+" with this slug already exists")
	}
	return nil
}

func entryBySlug[T catalogEntry](ctx context.Context, db *gorm.DB, slug, resource string) (*T, error) {
	var entry T
	if err := db.WithContext(ctx).First(&entry, "slug = ?", slug).Error; err != nil {
		return nil, wrapError(err, "get "+resource, resource, "")
	}
	return &entry, nil
}

func listEntries[T catalogEntry](ctx context.Context, db *gorm.DB, search string, page Page, resource string) ([]T, int64, error) {
	query := db.WithContext(ctx).Model(new(T))
	if search != "" {
		query = query.Where(likeContains("name"), containsPattern(search))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError(err, "count "+resource, resource, "")
	}

	entries := []T{}
	if err := page.apply(query.Order("id")).Find(&entries).Error; err != nil {
		return nil, 0, wrapError(err, "list "+resource, resource, "")
	}
	return entries, total, nil
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return createEntry(ctx, r.db, category, "category")
}

func (r *GORMCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return entryBySlug[models.Category](ctx, r.db, slug, "category")
}

func (r *GORMCategoryRepository) List(ctx context.Context, search string, page Page) ([]models.Category, int64, error) {
	return listEntries[models.Category](ctx, r.db, search, page, "category")
}

func (r *GORMCategoryRepository) Delete(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "slug = ?", slug).Error; err != nil {
			return wrapError(err, "delete category", "category", "")
		}
		if err := tx.Model(&models.Title{}).Where("category_id = ?", category.ID).Update("category_id", nil).Error; err != nil {
			return wrapError(err, "detach titles from category", "title", "")
		}
		if err := tx.Delete(&category).Error; err != nil {
			return wrapError(err, "delete category", "category", "")
		}
		return nil
	})
}

// GORMGenreRepository is a GORM implementation of GenreRepository.
type GORMGenreRepository struct {
	db *gorm.DB
}

// NewGORMGenreRepository creates a new instance of GORMGenreRepository.
func NewGORMGenreRepository(db *gorm.DB) *GORMGenreRepository {
	return &GORMGenreRepository{db: db}
}

func (r *GORMGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return createEntry(ctx, r.db, genre, "genre")
}

func (r *GORMGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	return entryBySlug[models.Genre](ctx, r.db, slug, "genre")
}

func (r *GORMGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres := []models.Genre{}
	if len(slugs) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("id").Find(&genres).Error; err != nil {
		return nil, wrapError(err, "get genres", "genre", "")
	}

	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, apperror.Validation(fmt.Sprintf("genre %q does not exist", slug), map[string]string{"genre": "unknown slug " + slug})
		}
	}
	return genres, nil
}

func (r *GORMGenreRepository) List(ctx context.Context, search string, page Page) ([]models.Genre, int64, error) {
	return listEntries[models.Genre](ctx, r.db, search, page, "genre")
}

func (r *GORMGenreRepository) Delete(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		if err := tx.First(&genre, "slug = ?", slug).Error; err != nil {
			return wrapError(err, "delete genre", "genre", "")
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
			return wrapError(err, "detach genre from titles", "title", "")
		}
		if err := tx.Delete(&genre).Error; err != nil {
			return wrapError(err, "delete genre", "genre", "")
		}
		return nil
	})
}
