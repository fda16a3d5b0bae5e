package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"courtflow/internal/identity"
	"courtflow/internal/model"
)

// ActorLocalKey is the key used to store the resolved actor in Fiber's context locals.
const ActorLocalKey = "actor"

// Auth resolves the Bearer token into an actor and stores it in context
// locals. Requests without a valid token are rejected before any handler
// runs; every route behind this middleware can assume an authenticated
// actor.
func Auth(resolver *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.ErrUnauthorized
		}

		actor, err := resolver.Resolve(token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// ActorFromCtx extracts the actor previously stored by Auth. The zero
// actor means the request was not authenticated.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}
