package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/interfaces/http"
	pkgjwt "github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "user-0001"
	testIssuer    = "service-crm-test"
	testExpMin    = 60
)

// buildTestApp wires a minimal Fiber app with AuthMiddleware + RequireRole
// in front of a dummy handler that echoes the parsed identity.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			loc, ok := apphttp.GetCallerLocation(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"user_id":      apphttp.GetUserID(c),
				"role":         apphttp.GetRole(c),
				"has_location": ok,
				"location":     loc.String(),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, role, locationKind string, locationID int64) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, testUserID, role, locationKind, locationID)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareParsesClaims(t *testing.T) {
	app := buildTestApp("service_center")
	resp := doRequest(t, app, tokenFor(t, "service_center", "service_center", 3))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testUserID, out["user_id"])
	assert.Equal(t, "service_center", out["role"])
	assert.Equal(t, true, out["has_location"])
	assert.Equal(t, "service_center:3", out["location"])
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	app := buildTestApp("service_center")
	resp := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	app := buildTestApp("service_center")
	resp := doRequest(t, app, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	app := buildTestApp("service_center")
	tok, err := pkgjwt.Generate("another-secret", testIssuer, testExpMin, testUserID, "service_center", "service_center", 3)
	require.NoError(t, err)
	resp := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoleAllows(t *testing.T) {
	app := buildTestApp("service_center", "plant", "rsm")
	resp := doRequest(t, app, tokenFor(t, "plant", "plant", 1))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleForbids(t *testing.T) {
	app := buildTestApp("service_center", "plant", "rsm")
	resp := doRequest(t, app, tokenFor(t, "technician", "technician", 7))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCallerLocationAbsent(t *testing.T) {
	app := buildTestApp("rsm")
	// RSM tokens may carry no location; the identity still parses.
	resp := doRequest(t, app, tokenFor(t, "rsm", "", 0))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, false, out["has_location"])
}
