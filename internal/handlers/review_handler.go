package handlers

import (
	"yamdb/internal/access"
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews and their comments.
// Anyone may read; writes need a user, and edits of existing entries are
// limited to the author, moderators and administrators.
type ReviewHandler struct {
	reviews   *services.ReviewService
	comments  *services.CommentService
	paginator Paginator
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *services.ReviewService, comments *services.CommentService, paginator Paginator) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, comments: comments, paginator: paginator}
}

// RegisterRoutes registers the review and comment routes under a title.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/titles/:title_id/reviews", middleware.Require(access.AuthenticatedOrReadOnly))
	reviewRoutes.Get("/", h.HandleGetReviews)
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Get("/:review_id", h.HandleGetReview)
	reviewRoutes.Patch("/:review_id", h.HandleUpdateReview)
	reviewRoutes.Delete("/:review_id", h.HandleDeleteReview)

	reviewRoutes.Get("/:review_id/comments", h.HandleGetComments)
	reviewRoutes.Post("/:review_id/comments", h.HandleCreateComment)
	reviewRoutes.Get("/:review_id/comments/:comment_id", h.HandleGetComment)
	reviewRoutes.Patch("/:review_id/comments/:comment_id", h.HandleUpdateComment)
	reviewRoutes.Delete("/:review_id/comments/:comment_id", h.HandleDeleteComment)
}

// reviewPath reads the title and review ids of the request path.
func reviewPath(c *fiber.Ctx) (titleID, reviewID uint, err error) {
	if titleID, err = idParam(c, "title_id", "title"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = idParam(c, "review_id", "review"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	titleID, err := idParam(c, "title_id", "title")
	if err != nil {
		return handleError(c, err)
	}
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	reviews, count, err := h.reviews.List(c.UserContext(), titleID, page)
	if err != nil {
		return handleError(c, err)
	}
	return h.paginator.Respond(c, page, count, newReviewResponses(reviews))
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	titleID, err := idParam(c, "title_id", "title")
	if err != nil {
		return handleError(c, err)
	}
	var req services.ReviewInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	review, err := h.reviews.Create(c.UserContext(), middleware.IdentityFrom(c), titleID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newReviewResponse(*review))
}

func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	review, err := h.reviews.Get(c.UserContext(), titleID, reviewID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newReviewResponse(*review))
}

func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	var req services.ReviewPatch
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	review, err := h.reviews.Update(c.UserContext(), middleware.IdentityFrom(c), titleID, reviewID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newReviewResponse(*review))
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	if err := h.reviews.Delete(c.UserContext(), middleware.IdentityFrom(c), titleID, reviewID); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReviewHandler) HandleGetComments(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	comments, count, err := h.comments.List(c.UserContext(), titleID, reviewID, page)
	if err != nil {
		return handleError(c, err)
	}
	return h.paginator.Respond(c, page, count, newCommentResponses(comments))
}

func (h *ReviewHandler) HandleCreateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	var req services.CommentInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	comment, err := h.comments.Create(c.UserContext(), middleware.IdentityFrom(c), titleID, reviewID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(*comment))
}

func (h *ReviewHandler) HandleGetComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	commentID, err := idParam(c, "comment_id", "comment")
	if err != nil {
		return handleError(c, err)
	}
	comment, err := h.comments.Get(c.UserContext(), titleID, reviewID, commentID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newCommentResponse(*comment))
}

func (h *ReviewHandler) HandleUpdateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	commentID, err := idParam(c, "comment_id", "comment")
	if err != nil {
		return handleError(c, err)
	}
	var req services.CommentInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	comment, err := h.comments.Update(c.UserContext(), middleware.IdentityFrom(c), titleID, reviewID, commentID, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newCommentResponse(*comment))
}

func (h *ReviewHandler) HandleDeleteComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return handleError(c, err)
	}
	commentID, err := idParam(c, "comment_id", "comment")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.comments.Delete(c.UserContext(), middleware.IdentityFrom(c), titleID, reviewID, commentID); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
