package handlers

import (
	"strconv"

	"yamdb/internal/access"
	"yamdb/internal/apperror"
	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TitleHandler handles HTTP requests for titles.
type TitleHandler struct {
	service   *services.TitleService
	paginator Paginator
}

// NewTitleHandler creates a new TitleHandler.
func NewTitleHandler(service *services.TitleService, paginator Paginator) *TitleHandler {
	return &TitleHandler{service: service, paginator: paginator}
}

// RegisterRoutes registers the title routes. Only administrators write.
func (h *TitleHandler) RegisterRoutes(router fiber.Router) {
	adminOrReadOnly := middleware.Require(access.AdminOrReadOnly)
	titleRoutes := router.Group("/titles")
	titleRoutes.Get("/", h.HandleGetTitles)
	titleRoutes.Post("/", adminOrReadOnly, h.HandleCreateTitle)
	titleRoutes.Get("/:title_id", h.HandleGetTitle)
	titleRoutes.Patch("/:title_id", adminOrReadOnly, h.HandleUpdateTitle)
	titleRoutes.Delete("/:title_id", adminOrReadOnly, h.HandleDeleteTitle)
}

// titleFilter reads the ?category=, ?genre=, ?name= and ?year= filters.
func titleFilter(c *fiber.Ctx) (repositories.TitleFilter, error) {
	filter := repositories.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperror.Validation("year must be a number", map[string]string{"year": "year must be a number"})
		}
		filter.Year = year
	}
	return filter, nil
}

// HandleGetTitles lists titles with their computed rating.
func (h *TitleHandler) HandleGetTitles(c *fiber.Ctx) error {
	filter, err := titleFilter(c)
	if err != nil {
		return handleError(c, err)
	}
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	titles, count, err := h.service.List(c.UserContext(), filter, page)
	if err != nil {
		return handleError(c, err)
	}
	return h.paginator.Respond(c, page, count, newTitleResponses(titles))
}

func (h *TitleHandler) HandleGetTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id", "title")
	if err != nil {
		return handleError(c, err)
	}
	title, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleCreateTitle(c *fiber.Ctx) error {
	var req services.TitleInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	title, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleUpdateTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id", "title")
	if err != nil {
		return handleError(c, err)
	}
	var req services.TitlePatch
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	title, err := h.service.Update(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(newTitleResponse(*title))
}

func (h *TitleHandler) HandleDeleteTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id", "title")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
