package handlers

import (
	"yamdb/internal/access"
	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service   *services.CategoryService
	paginator Paginator
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, paginator Paginator) *CategoryHandler {
	return &CategoryHandler{service: service, paginator: paginator}
}

// RegisterRoutes registers the category routes. Only administrators write.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories", middleware.Require(access.AdminOrReadOnly))
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Delete("/:slug", h.HandleDeleteCategory)
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	categories, count, err := h.service.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]CatalogResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, CatalogResponse{Name: category.Name, Slug: category.Slug})
	}
	return h.paginator.Respond(c, page, count, out)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req services.CatalogInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	category, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(CatalogResponse{Name: category.Name, Slug: category.Slug})
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GenreHandler handles HTTP requests for genres.
type GenreHandler struct {
	service   *services.GenreService
	paginator Paginator
}

// NewGenreHandler creates a new GenreHandler.
func NewGenreHandler(service *services.GenreService, paginator Paginator) *GenreHandler {
	return &GenreHandler{service: service, paginator: paginator}
}

// RegisterRoutes registers the genre routes. Only administrators write.
func (h *GenreHandler) RegisterRoutes(router fiber.Router) {
	genreRoutes := router.Group("/genres", middleware.Require(access.AdminOrReadOnly))
	genreRoutes.Get("/", h.HandleGetGenres)
	genreRoutes.Post("/", h.HandleCreateGenre)
	genreRoutes.Delete("/:slug", h.HandleDeleteGenre)
}

func (h *GenreHandler) HandleGetGenres(c *fiber.Ctx) error {
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	genres, count, err := h.service.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return handleError(c, err)
	}
	return h.paginator.Respond(c, page, count, genreResponses(genres))
}

func genreResponses(genres []models.Genre) []CatalogResponse {
	out := make([]CatalogResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, CatalogResponse{Name: g.Name, Slug: g.Slug})
	}
	return out
}

func (h *GenreHandler) HandleCreateGenre(c *fiber.Ctx) error {
	var req services.CatalogInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	genre, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(CatalogResponse{Name: genre.Name, Slug: genre.Slug})
}

func (h *GenreHandler) HandleDeleteGenre(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
