package services

import (
	"context"
	"net/http"

	"yamdb/internal/access"
	"yamdb/internal/apperror"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"

	"github.com/rs/zerolog/log"
)

// ReviewInput is the body for creating a review.
type ReviewInput struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"score"`
}

// ReviewPatch is a partial review update.
type ReviewPatch struct {
	Text  *string `json:"text" validate:"omitempty,min=1"`
	Score *int    `json:"score" validate:"omitempty,score"`
}

// CommentInput is the body for creating or editing a comment.
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// ReviewService handles reviews of a title.
type ReviewService struct {
	reviews repositories.ReviewRepository
	titles  repositories.TitleRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, titles repositories.TitleRepository) *ReviewService {
	return &ReviewService{reviews: reviews, titles: titles}
}

func (s *ReviewService) List(ctx context.Context, titleID uint, page repositories.Page) ([]models.Review, int64, error) {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page)
}

func (s *ReviewService) Get(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	return s.reviews.GetByID(ctx, titleID, reviewID)
}

// Create stores actor's review of the title. A second review by the same
// author is rejected before insert; the unique index catches races.
func (s *ReviewService) Create(ctx context.Context, actor access.Identity, titleID uint, in ReviewInput) (*models.Review, error) {
	if err := access.Authenticated(http.MethodPost, actor); err != nil {
		return nil, err
	}
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForAuthor(ctx, actor.UserID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Validation(repositories.ReviewConflict, nil)
	}

	review := &models.Review{AuthorID: actor.UserID, TitleID: titleID, Text: in.Text, Score: in.Score}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	log.Info().Uint("title_id", titleID).Str("author", actor.Username).Int("score", in.Score).Msg("review created")
	return s.reviews.GetByID(ctx, titleID, review.ID)
}

func (s *ReviewService) Update(ctx context.Context, actor access.Identity, titleID, reviewID uint, patch ReviewPatch) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorOrStaff(http.MethodPatch, actor, review.AuthorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor access.Identity, titleID, reviewID uint) error {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := access.AuthorOrStaff(http.MethodDelete, actor, review.AuthorID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		return err
	}
	log.Info().Uint("review_id", reviewID).Str("actor", actor.Username).Msg("review deleted")
	return nil
}

// CommentService handles comments on a review.
type CommentService struct {
	comments repositories.CommentRepository
	reviews  repositories.ReviewRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repositories.CommentRepository, reviews repositories.ReviewRepository) *CommentService {
	return &CommentService{comments: comments, reviews: reviews}
}

// review resolves the parent review; it must belong to the title.
func (s *CommentService) review(ctx context.Context, titleID, reviewID uint) (*models.Review, error) {
	return s.reviews.GetByID(ctx, titleID, reviewID)
}

func (s *CommentService) List(ctx context.Context, titleID, reviewID uint, page repositories.Page) ([]models.Comment, int64, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page)
}

func (s *CommentService) Get(ctx context.Context, titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, commentID)
}

func (s *CommentService) Create(ctx context.Context, actor access.Identity, titleID, reviewID uint, in CommentInput) (*models.Comment, error) {
	if err := access.Authenticated(http.MethodPost, actor); err != nil {
		return nil, err
	}
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment := &models.Comment{AuthorID: actor.UserID, ReviewID: reviewID, Text: in.Text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, reviewID, comment.ID)
}

func (s *CommentService) Update(ctx context.Context, actor access.Identity, titleID, reviewID, commentID uint, in CommentInput) (*models.Comment, error) {
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorOrStaff(http.MethodPatch, actor, comment.AuthorID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor access.Identity, titleID, reviewID, commentID uint) error {
	comment, err := s.Get(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := access.AuthorOrStaff(http.MethodDelete, actor, comment.AuthorID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, reviewID, commentID)
}
