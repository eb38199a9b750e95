package middleware

import (
	"strings"

	"clubhub/internal/config"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/jwt"
	"clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set user info in context
		c.Locals("userID", claims.UserID)
		c.Locals("handle", claims.Handle)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if domain.Role(role) == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// OwnerOnly middleware allows only the owner role
func OwnerOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleOwner)
}

// OfficeOrOwner middleware allows office or owner roles
func OfficeOrOwner() fiber.Handler {
	return RoleMiddleware(domain.RoleOffice, domain.RoleOwner)
}

// ManagerOrOwner middleware allows manager or owner roles
func ManagerOrOwner() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleOwner)
}

// EventStaff middleware allows the event-creating roles
func EventStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleOffice, domain.RoleOwner)
}

// OptionalAuth doesn't require auth but sets user info if a valid token is
// present. Registration uses it so an authenticated owner can assign roles.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")

		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("userID", claims.UserID)
				c.Locals("handle", claims.Handle)
				c.Locals("role", claims.Role)
			}
		}

		return c.Next()
	}
}

