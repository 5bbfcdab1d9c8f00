package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles the services the HTTP layer depends on.
type Services struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Categories *services.CategoryService
	Genres     *services.GenreService
	Titles     *services.TitleService
	Reviews    *services.ReviewService
	Comments   *services.CommentService
}

// Register mounts every API route on router. The bearer token, if any, is
// resolved before any route runs.
func Register(router fiber.Router, svc Services, pageSize int) {
	paginator := NewPaginator(pageSize)

	router.Use(middleware.Authenticate(svc.Auth))

	NewAuthHandler(svc.Auth).RegisterRoutes(router)
	NewUserHandler(svc.Users, paginator).RegisterRoutes(router)
	NewCategoryHandler(svc.Categories, paginator).RegisterRoutes(router)
	NewGenreHandler(svc.Genres, paginator).RegisterRoutes(router)
	NewTitleHandler(svc.Titles, paginator).RegisterRoutes(router)
	NewReviewHandler(svc.Reviews, svc.Comments, paginator).RegisterRoutes(router)
}
