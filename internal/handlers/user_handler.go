package handlers

import (
	"yamdb/internal/access"
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user management and profiles.
type UserHandler struct {
	service   *services.UserService
	paginator Paginator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, paginator Paginator) *UserHandler {
	return &UserHandler{service: service, paginator: paginator}
}

// RegisterRoutes registers the user routes. /users/me is registered before
// /users/:username so it is never read as a username.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", middleware.Require(access.Authenticated), h.HandleGetMe)
	userRoutes.Patch("/me", middleware.Require(access.Authenticated), h.HandleUpdateMe)

	admin := middleware.Require(access.AdminOnly)
	userRoutes.Get("/", admin, h.HandleGetUsers)
	userRoutes.Post("/", admin, h.HandleCreateUser)
	userRoutes.Get("/:username", admin, h.HandleGetUser)
	userRoutes.Patch("/:username", admin, h.HandleUpdateUser)
	userRoutes.Delete("/:username", admin, h.HandleDeleteUser)
}

// HandleGetUsers lists users, optionally filtered by ?search= on username.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	page, err := h.paginator.Page(c)
	if err != nil {
		return handleError(c, err)
	}
	users, count, err := h.service.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return handleError(c, err)
	}
	return h.paginator.Respond(c, page, count, users)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req services.UserInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	user, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("username"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req services.UserPatch
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	user, err := h.service.Update(c.UserContext(), middleware.IdentityFrom(c), c.Params("username"), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("username")); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetMe returns the caller's own profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.IdentityFrom(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(user)
}

// HandleUpdateMe edits the caller's own profile. Role changes are ignored
// unless the caller is an administrator.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req services.UserPatch
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}
	user, err := h.service.UpdateMe(c.UserContext(), middleware.IdentityFrom(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(user)
}
