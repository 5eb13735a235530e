package api

import (
	"bytes"
	"errors"

	"github.com/example/task-manager/domain/apperr"
	"github.com/gofiber/fiber/v2"
)

var (
	errRouteNotFound = apperr.NotFound("Route not found")
	errInvalidJSON   = apperr.Validation("Invalid JSON body")
)

// errorHandler renders every error as {"error":{"message","code"}}.
// Unexpected errors are logged and reported without detail.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return writeFiberError(c, fe)
	}

	e := apperr.From(err)
	if e.Code == apperr.CodeServerError {
		m.logger.Error("Request failed",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"err", err,
		)
	}
	return c.Status(e.Code.HTTPStatus()).JSON(ErrorResponse{Error: e})
}

func writeFiberError(c *fiber.Ctx, fe *fiber.Error) error {
	var e *apperr.Error
	switch {
	case fe.Code == fiber.StatusNotFound:
		e = errRouteNotFound
	case fe.Code >= 400 && fe.Code < 500:
		e = apperr.Validation(fe.Message)
	default:
		e = apperr.Internal()
	}
	return c.Status(fe.Code).JSON(ErrorResponse{Error: e})
}

// decodeBody parses a JSON request body into v. A blank body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, v); err != nil {
		return errInvalidJSON
	}
	return nil
}
