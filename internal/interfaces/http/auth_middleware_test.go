package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/StockTrack-api/internal/domain/entity"
	httpiface "github.com/jhoicas/StockTrack-api/internal/interfaces/http"
	"github.com/jhoicas/StockTrack-api/pkg/jwt"
)

const (
	testJWTSecret = "secreto-de-pruebas"
	testUserID    = "11111111-1111-1111-1111-111111111111"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// buildTestApp arma una app mínima con una ruta protegida por auth y otra
// que además exige el rol admin_store.
func buildTestApp() *fiber.App {
	app := fiber.New()

	auth := httpiface.AuthMiddleware(testJWTSecret)

	app.Get("/protegida", auth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": httpiface.GetUserID(c),
			"role":    httpiface.GetRole(c),
		})
	})
	app.Get("/solo-admin", auth, httpiface.RequireRole(entity.RoleAdminStore), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testJWTSecret, testUserID, role, "stocktrack-test", 60)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

// ─────────────────────────────────────────────
// AuthMiddleware
// ─────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/protegida", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/protegida", "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenVacio_Retorna401(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/protegida", "Bearer ")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenBasura_Retorna401(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/protegida", "Bearer no-es-un-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_FirmaDeOtroSecreto_Retorna401(t *testing.T) {
	app := buildTestApp()

	token, err := jwt.Generate("otro-secreto", testUserID, entity.RoleAdminStore, "stocktrack-test", 60)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/protegida", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp()

	token, err := jwt.Generate(testJWTSecret, testUserID, entity.RoleAdminStore, "stocktrack-test", -5)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/protegida", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenValido_ExponeUserIDYRole(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/protegida", "Bearer "+tokenForRole(t, entity.RoleAdminStore))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, testUserID)
	assert.Contains(t, body, entity.RoleAdminStore)
}

// ─────────────────────────────────────────────
// RequireRole
// ─────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()

	resp, _ := doRequest(t, app, "/solo-admin", "Bearer "+tokenForRole(t, entity.RoleAdminStore))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolDistintoBloqueado(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/solo-admin", "Bearer "+tokenForRole(t, "viewer"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "FORBIDDEN")
}
