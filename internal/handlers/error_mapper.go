package handlers

import (
	"errors"

	"yamdb/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error   apperror.Kind     `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// handleError writes err as a JSON error reply with the status of its kind.
// Internal errors are logged and replaced by a generic message.
func handleError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}

	if appErr.Kind == apperror.KindInternal {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Interface("request_id", c.Locals("requestid")).
			Msg("request failed")
	}

	return c.Status(apperror.HTTPStatus(appErr.Kind)).JSON(errorResponse{
		Error:   appErr.Kind,
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}

// ErrorHandler is the Fiber error handler. It renders errors returned by
// middleware and Fiber's own routing errors in the application format.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		kind := apperror.KindInternal
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			kind = apperror.KindNotFound
		case fiber.StatusMethodNotAllowed:
			kind = "method_not_allowed"
		default:
			if fiberErr.Code < fiber.StatusInternalServerError {
				kind = apperror.KindValidation
			}
		}
		return c.Status(fiberErr.Code).JSON(errorResponse{Error: kind, Message: fiberErr.Message})
	}
	return handleError(c, err)
}

// parseBody decodes the JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
		return apperror.Validation("invalid request body", nil)
	}
	return nil
}

// idParam reads a positive integer route parameter. A malformed id names no
// resource, so it is reported as not found.
func idParam(c *fiber.Ctx, name, resource string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound(resource)
	}
	return uint(id), nil
}
