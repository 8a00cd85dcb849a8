package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/me", JWTMiddleware(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals(LocalsUserID),
			"role":    c.Locals(LocalsRole),
		})
	})
	app.Post("/training", AthleteOnly(testSecret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	return app
}

func signedAccessToken(t *testing.T, secret, userID string, role Role) string {
	t.Helper()
	mock := newMock(t)
	expectRefreshInsert(mock)
	tokens, err := NewService(secret, mock).GenerateTokens(context.Background(), userID, role)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return tokens.AccessToken
}

func TestJWTMiddlewareAllowsValidToken(t *testing.T) {
	app := newProtectedApp(t)
	token := signedAccessToken(t, testSecret, "user-1", RoleAthlete)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareRejectsForeignSignature(t *testing.T) {
	app := newProtectedApp(t)
	token := signedAccessToken(t, "other-secret", "user-1", RoleAthlete)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAthleteOnlyAdmitsAthlete(t *testing.T) {
	app := newProtectedApp(t)
	token := signedAccessToken(t, testSecret, "athlete-1", RoleAthlete)

	req := httptest.NewRequest(http.MethodPost, "/training", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestAthleteOnlyRejectsCoach(t *testing.T) {
	app := newProtectedApp(t)
	token := signedAccessToken(t, testSecret, "coach-1", RoleCoach)

	req := httptest.NewRequest(http.MethodPost, "/training", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAthleteOnlyRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest(http.MethodPost, "/training", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestBearerFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerFromHeader(tc.header); got != tc.want {
			t.Errorf("bearerFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
