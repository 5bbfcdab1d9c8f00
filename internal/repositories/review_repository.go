package repositories

import (
	"context"

	"yamdb/internal/models"
)

// ReviewRepository defines the interface for review data access. Reviews are
// always addressed through their title.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID uint, page Page) ([]models.Review, int64, error)
	GetByID(ctx context.Context, titleID, reviewID uint) (*models.Review, error)
	ExistsForAuthor(ctx context.Context, authorID, titleID uint) (bool, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	// Delete removes the review and its comments.
	Delete(ctx context.Context, titleID, reviewID uint) error
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID uint, page Page) ([]models.Comment, int64, error)
	GetByID(ctx context.Context, reviewID, commentID uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, reviewID, commentID uint) error
}
