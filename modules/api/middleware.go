package api

import (
	"strings"

	"github.com/example/task-manager/domain/apperr"
	"github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the fiber.Locals key holding the caller's *user.Identity.
const UserContextKey = "user"

var errMissingToken = apperr.Unauthorized("Missing Authorization token")

// AuthMiddleware resolves the bearer token to an identity or rejects the request.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return errMissingToken
		}

		identity, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(UserContextKey, identity)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser returns the identity set by AuthMiddleware.
func currentUser(c *fiber.Ctx) *user.Identity {
	identity, _ := c.Locals(UserContextKey).(*user.Identity)
	return identity
}
