package handlers

import (
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for signup and token exchange.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/token", h.HandleToken)
}

// HandleSignup registers a user, or re-issues a code for an existing one,
// and sends the confirmation code by email.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	user, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}

// HandleToken exchanges a confirmation code for an access token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req services.TokenInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	token, err := h.authService.ObtainToken(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}
