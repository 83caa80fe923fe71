package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"civiceye/models"
	"civiceye/repository"
	"civiceye/store"
	"civiceye/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp.StatusCode
}

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func TestGatewayAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("secret", zap.NewNop()))
	app.Get("/healthz", ok)
	app.Get("/publications", ok)

	cases := []struct {
		path, auth string
		want       int
	}{
		{"/healthz", "", fiber.StatusOK},
		{"/publications", "", fiber.StatusUnauthorized},
		{"/publications", "Bearer wrong", fiber.StatusUnauthorized},
		{"/publications", "Bearer secret", fiber.StatusOK},
		{"/publications", "secret", fiber.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, c.path, nil)
		if c.auth != "" {
			req.Header.Set("Authorization", c.auth)
		}
		if got := status(t, app, req); got != c.want {
			t.Errorf("%s with %q = %d, want %d", c.path, c.auth, got, c.want)
		}
	}
}

func TestGatewayAuthMiddleware_DisabledWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("", zap.NewNop()))
	app.Get("/publications", ok)
	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/publications", nil)); got != fiber.StatusOK {
		t.Errorf("status = %d, want 200", got)
	}
}

func TestUserContextMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware(zap.NewNop()))
	app.Get("/s/me", func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		return c.JSON(fiber.Map{"user": c.Locals("user_id"), "roles": roles})
	})
	app.Get("/publications", ok)

	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/s/me", nil)); got != fiber.StatusUnauthorized {
		t.Errorf("missing user = %d, want 401", got)
	}
	if got := status(t, app, httptest.NewRequest(http.MethodGet, "/publications", nil)); got != fiber.StatusOK {
		t.Errorf("public route = %d, want 200", got)
	}
	req := httptest.NewRequest(http.MethodGet, "/s/me", nil)
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Roles", "user, ,admin")
	if got := status(t, app, req); got != fiber.StatusOK {
		t.Errorf("with user = %d, want 200", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	log := zap.NewNop()
	users := repository.NewUsers(store.NewMemory(), log)
	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "boss", Email: "boss@civiceye.com", Name: "Boss", Level: 1, IsAdmin: true},
		{ID: "ana", Email: "ana@example.com", Name: "Ana", Level: 1},
	} {
		if err := users.Add(ctx, u); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	app := fiber.New()
	app.Use(UserContextMiddleware(log))
	app.Get("/s/admin/stats", RequireAdmin(users, log), func(c *fiber.Ctx) error {
		if admin, _ := c.Locals("is_admin").(bool); !admin {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		user, roles string
		want        int
	}{
		{"boss", "", fiber.StatusOK},
		{"ana", "", fiber.StatusForbidden},
		{"ana", "admin", fiber.StatusOK},
		{"ghost", "", fiber.StatusForbidden},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/s/admin/stats", nil)
		req.Header.Set("X-User-ID", c.user)
		if c.roles != "" {
			req.Header.Set("X-User-Roles", c.roles)
		}
		if got := status(t, app, req); got != c.want {
			t.Errorf("user %s roles %q = %d, want %d", c.user, c.roles, got, c.want)
		}
	}
}

func TestRequestLogger_CountsByRoute(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/publications/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	counter := utils.ReqCount.WithLabelValues(http.MethodGet, "/publications/:id", "404")
	before := testutil.ToFloat64(counter)
	for _, id := range []string{"a", "b"} {
		if got := status(t, app, httptest.NewRequest(http.MethodGet, "/publications/"+id, nil)); got != fiber.StatusNotFound {
			t.Errorf("status = %d, want 404", got)
		}
	}
	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("counted %v requests, want 2", got)
	}
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
	}
	if err := ValidateStruct(input{Email: "ana@example.com"}); err != nil {
		t.Errorf("valid input: %v", err)
	}
	if err := ValidateStruct(input{Email: "nope"}); err == nil {
		t.Errorf("invalid email accepted")
	}
}
