package repositories

import (
	"context"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// ratingColumn averages review scores; LEFT JOIN yields NULL for unreviewed titles.
const ratingColumn = "titles.*, AVG(CAST(reviews.score AS FLOAT)) AS rating"

// GORMTitleRepository is a GORM implementation of TitleRepository.
type GORMTitleRepository struct {
	db *gorm.DB
}

// NewGORMTitleRepository creates a new instance of GORMTitleRepository.
func NewGORMTitleRepository(db *gorm.DB) *GORMTitleRepository {
	return &GORMTitleRepository{db: db}
}

func (r *GORMTitleRepository) filtered(db *gorm.DB, f TitleFilter) *gorm.DB {
	query := db.Model(&models.Title{})
	if f.CategorySlug != "" {
		categoryIDs := db.Model(&models.Category{}).Select("id").Where("slug = ?", f.CategorySlug)
		query = query.Where("titles.category_id IN (?)", categoryIDs)
	}
	if f.GenreSlug != "" {
		tagged := db.Table("title_genres").
			Select("title_genres.title_id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
		query = query.Where("titles.id IN (?)", tagged)
	}
	if f.Name != "" {
		query = query.Where(likeContains("titles.name"), containsPattern(f.Name))
	}
	if f.Year != 0 {
		query = query.Where("titles.year = ?", f.Year)
	}
	return query
}

func withRating(query *gorm.DB) *gorm.DB {
	return query.
		Select(ratingColumn).
		Joins("LEFT JOIN reviews ON reviews.title_id = titles.id").
		Group("titles.id").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Preload("Category")
}

// List returns one page of titles ordered by ID.
func (r *GORMTitleRepository) List(ctx context.Context, filter TitleFilter, page Page) ([]models.Title, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := r.filtered(db, filter).Count(&total).Error; err != nil {
		return nil, 0, wrapError(err, "count titles", "title", "")
	}

	titles := []models.Title{}
	query := withRating(r.filtered(db, filter)).Order("titles.id")
	if err := page.apply(query).Find(&titles).Error; err != nil {
		return nil, 0, wrapError(err, "list titles", "title", "")
	}
	return titles, total, nil
}

// GetByID retrieves a single title with its rating.
func (r *GORMTitleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	query := withRating(r.db.WithContext(ctx).Model(&models.Title{})).Where("titles.id = ?", id)
	if err := query.First(&title).Error; err != nil {
		return nil, wrapError(err, "get title", "title", "")
	}
	return &title, nil
}

// Create inserts the title and links its genres. Genres must already exist.
func (r *GORMTitleRepository) Create(ctx context.Context, title *models.Title) error {
	if err := r.db.WithContext(ctx).Omit("Genres.*", "Category").Create(title).Error; err != nil {
		return wrapError(err, "create title", "title", "title already exists")
	}
	return nil
}

func (r *GORMTitleRepository) Update(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Title{ID: title.ID}).Updates(map[string]interface{}{
			"name":        title.Name,
			"year":        title.Year,
			"description": title.Description,
			"category_id": title.CategoryID,
		})
		if res.Error != nil {
			return wrapError(res.Error, "update title", "title", "")
		}
		if res.RowsAffected == 0 {
			return wrapError(gorm.ErrRecordNotFound, "update title", "title", "")
		}
		if genres == nil {
			return nil
		}
		association := tx.Model(&models.Title{ID: title.ID}).Association("Genres")
		var err error
		if len(genres) == 0 {
			err = association.Clear()
		} else {
			err = association.Replace(genres)
		}
		if err != nil {
			return wrapError(err, "replace title genres", "genre", "")
		}
		return nil
	})
}

func (r *GORMTitleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var title models.Title
		if err := tx.First(&title, "id = ?", id).Error; err != nil {
			return wrapError(err, "delete title", "title", "")
		}

		reviewIDs := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviewIDs).Delete(&models.Comment{}).Error; err != nil {
			return wrapError(err, "delete title comments", "comment", "")
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return wrapError(err, "delete title reviews", "review", "")
		}
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return wrapError(err, "detach title genres", "genre", "")
		}
		if err := tx.Delete(&title).Error; err != nil {
			return wrapError(err, "delete title", "title", "")
		}
		return nil
	})
}
