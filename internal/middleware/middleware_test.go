package middleware

import (
	"ahaar-backend/domain"
	"ahaar-backend/pkg/jwt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, jwt.JWTService) {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret")
	m := NewMiddleware("")

	app := fiber.New()
	app.Get("/me", m.AuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string) + ":" + c.Locals("role").(string))
	})
	app.Get("/admin", m.AuthMiddleware(jwtService), m.OnlyRoles(domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, jwtService
}

func TestAuthMiddleware(t *testing.T) {
	app, jwtService := newTestApp(t)
	token, err := jwtService.GenerateTokenUser("user-1", domain.RoleNGO)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"bad token", "Bearer abc", fiber.StatusUnauthorized},
		{"valid token", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.StatusCode)
		})
	}
}

func TestOnlyRoles(t *testing.T) {
	app, jwtService := newTestApp(t)

	for role, want := range map[string]int{
		domain.RoleAdmin: fiber.StatusNoContent,
		domain.RoleNGO:   fiber.StatusForbidden,
	} {
		token, err := jwtService.GenerateTokenUser("user-1", role)
		require.NoError(t, err)

		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, res.StatusCode, role)
	}
}
