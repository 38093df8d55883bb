package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/excel-analyzer/internal/config"
	"github.com/localnerve/excel-analyzer/internal/models"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/types"
)

const (
	userKey       = "user"
	sessionCookie = "cookie_session"
)

// AuthUser requires an authenticated user
func AuthUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authenticate(c, auth); err != nil {
			return err
		}
		return c.Next()
	}
}

// AuthAdmin requires an authenticated user with the admin role
func AuthAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authenticate(c, auth); err != nil {
			return err
		}
		if !CurrentUser(c).IsAdmin() {
			return types.NewForbiddenError("Access denied")
		}
		return c.Next()
	}
}

// CurrentUser returns the user set by AuthUser or AuthAdmin
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// SetUser stores the authenticated user on the request
func SetUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userKey, user)
}

// authenticate accepts a bearer token, or in session mode the Authorizer cookie
func authenticate(c *fiber.Ctx, auth *services.AuthService) error {
	if CurrentUser(c) != nil {
		return nil
	}

	if token := bearerToken(c); token != "" && auth.Config.JWTSecret != "" {
		user, err := auth.UserFromToken(c.UserContext(), token)
		if err != nil {
			return err
		}
		SetUser(c, user)
		return nil
	}

	if auth.Config.AuthProvider == config.AuthProviderAuthorizer {
		session := c.Cookies(sessionCookie)
		if session == "" {
			return types.NewAuthError("Authorizer cookie \"cookie_session\" not found")
		}
		if err := auth.InitAuthorizer(c.Protocol(), c.Hostname()); err != nil {
			return types.NewUpstreamError("Session service unavailable", err)
		}
		user, err := auth.UserFromSession(c.UserContext(), session)
		if err != nil {
			return err
		}
		SetUser(c, user)
		return nil
	}

	return types.NewAuthError("Not authorized, no token")
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
