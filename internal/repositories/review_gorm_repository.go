package repositories

import (
	"context"

	"yamdb/internal/models"

	"gorm.io/gorm"
)

// ReviewConflict is reported when an author reviews the same title twice.
const ReviewConflict = "review already submitted"

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Preload("Title")
}

func (r *GORMReviewRepository) ListByTitle(ctx context.Context, titleID uint, page Page) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, wrapError(err, "count reviews", "review", ReviewConflict)
	}

	reviews := []models.Review{}
	query := r.withRelations(ctx).Where("title_id = ?", titleID).Order("pub_date").Order("id")
	if err := page.apply(query).Find(&reviews).Error; err != nil {
		return nil, 0, wrapError(err, "list reviews", "review", ReviewConflict)
	}
	return reviews, total, nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	var review models.Review
	if err := r.withRelations(ctx).First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error; err != nil {
		return nil, wrapError(err, "get review", "review", ReviewConflict)
	}
	return &review, nil
}

func (r *GORMReviewRepository) ExistsForAuthor(ctx context.Context, authorID, titleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("author_id = ? AND title_id = ?", authorID, titleID).
		Count(&count).Error
	if err != nil {
		return false, wrapError(err, "check review", "review", ReviewConflict)
	}
	return count > 0, nil
}

// Create inserts the review. The unique index on (author_id, title_id) is the
// final arbiter when two requests race past ExistsForAuthor.
func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Title").Create(review).Error; err != nil {
		return wrapError(err, "create review", "review", ReviewConflict)
	}
	return nil
}

func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(&models.Review{ID: review.ID}).Updates(map[string]interface{}{
		"text":  review.Text,
		"score": review.Score,
	}).Error
	if err != nil {
		return wrapError(err, "update review", "review", ReviewConflict)
	}
	return nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, titleID, reviewID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error; err != nil {
			return wrapError(err, "delete review", "review", ReviewConflict)
		}
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.Comment{}).Error; err != nil {
			return wrapError(err, "delete review comments", "comment", ReviewConflict)
		}
		if err := tx.Delete(&review).Error; err != nil {
			return wrapError(err, "delete review", "review", ReviewConflict)
		}
		return nil
	})
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

func (r *GORMCommentRepository) ListByReview(ctx context.Context, reviewID uint, page Page) ([]models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("review_id = ?", reviewID).Count(&total).Error; err != nil {
		return nil, 0, wrapError(err, "count comments", "comment", "")
	}

	comments := []models.Comment{}
	query := r.db.WithContext(ctx).Preload("Author").Where("review_id = ?", reviewID).Order("pub_date").Order("id")
	if err := page.apply(query).Find(&comments).Error; err != nil {
		return nil, 0, wrapError(err, "list comments", "comment", "")
	}
	return comments, total, nil
}

func (r *GORMCommentRepository) GetByID(ctx context.Context, reviewID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		First(&comment, "id = ? AND review_id = ?", commentID, reviewID).Error
	if err != nil {
		return nil, wrapError(err, "get comment", "comment", "")
	}
	return &comment, nil
}

func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Review").Create(comment).Error; err != nil {
		return wrapError(err, "create comment", "comment", "")
	}
	return nil
}

func (r *GORMCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).Update("text", comment.Text).Error
	if err != nil {
		return wrapError(err, "update comment", "comment", "")
	}
	return nil
}

func (r *GORMCommentRepository) Delete(ctx context.Context, reviewID, commentID uint) error {
	res := r.db.WithContext(ctx).Where("review_id = ?", reviewID).Delete(&models.Comment{}, commentID)
	if res.Error != nil {
		return wrapError(res.Error, "delete comment", "comment", "")
	}
	if res.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "delete comment", "comment", "")
	}
	return nil
}
