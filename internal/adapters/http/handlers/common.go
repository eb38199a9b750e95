package handlers

import (
	"strconv"

	"clubhub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// actorFromLocals builds the authenticated actor from fiber Locals set by
// the auth middleware.
func actorFromLocals(c *fiber.Ctx) (domain.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return domain.Actor{}, false
	}
	handle, _ := c.Locals("handle").(string)
	role, ok := c.Locals("role").(string)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: userID, Handle: handle, Role: domain.Role(role)}, true
}

// paramUint parses a numeric path parameter
func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
