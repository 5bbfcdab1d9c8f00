package middleware

import (
	"context"
	"strings"

	"yamdb/internal/access"
	"yamdb/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (access.Identity, error)
}

// Authenticate is a Fiber middleware that resolves the bearer token, if any,
// and stores the caller's identity in the context. Requests without an
// Authorization header continue anonymously; a malformed or invalid token is
// rejected.
func Authenticate(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(identityKey, access.Anonymous())

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "") {
			return apperror.Unauthenticated("authorization header format must be 'Bearer <token>'")
		}

		identity, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by Authenticate, or an anonymous
// identity when none is present.
func IdentityFrom(c *fiber.Ctx) access.Identity {
	if id, ok := c.Locals(identityKey).(access.Identity); ok {
		return id
	}
	return access.Anonymous()
}

// Require rejects the request unless rule admits the caller for its method.
func Require(rule access.Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := rule(c.Method(), IdentityFrom(c)); err != nil {
			return err
		}
		return c.Next()
	}
}
