package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"app/config"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProtectedApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTMiddleware)
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userID").(string))
	})
	return app
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: "user-1",
		Role:   "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	app := makeProtectedApp()
	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	app := makeProtectedApp()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeProtectedApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", time.Now().Add(time.Hour)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeProtectedApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", time.Now().Add(-time.Hour)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestJWTMiddlewareWrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeProtectedApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", time.Now().Add(time.Hour)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAdminRequired(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userRole", "owner")
		return c.Next()
	})
	app.Use(AdminRequired)
	app.Get("/test", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}
