package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func testConfig() Config {
	return Config{
		Secret: []byte("test-secret"),
		Issuer: "dripwatch",
		TTL:    time.Hour,
	}
}

func TestIssueAndValidateToken(t *testing.T) {
	cfg := testConfig()
	employeeID := uuid.New()

	token, err := IssueToken(cfg, employeeID, "nurse@example.com", "enfermeiro")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beds", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID, gotEmail string
	handler := Middleware(cfg)(func(c echo.Context) error {
		gotUserID = UserIDFromContext(c.Request().Context())
		gotEmail = UserEmailFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("middleware rejected valid token: %v", err)
	}
	if gotUserID != employeeID.String() {
		t.Errorf("user id = %q, want %q", gotUserID, employeeID)
	}
	if gotEmail != "nurse@example.com" {
		t.Errorf("email = %q, want nurse@example.com", gotEmail)
	}
}

func TestMiddleware_RejectsMissingAndBadTokens(t *testing.T) {
	cfg := testConfig()
	e := echo.New()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/beds", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Middleware(cfg)(func(c echo.Context) error {
			t.Fatalf("%s: handler reached", tc.name)
			return nil
		})

		err := handler(c)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("%s: err = %v, want 401", tc.name, err)
		}
	}
}

func TestMiddleware_RejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = -time.Minute

	token, err := IssueToken(cfg, uuid.New(), "nurse@example.com", "")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beds", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(cfg)(func(c echo.Context) error {
		t.Fatal("handler reached with expired token")
		return nil
	})

	err = handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("err = %v, want 401", err)
	}
}

func TestSkipper(t *testing.T) {
	e := echo.New()
	cases := []struct {
		path string
		skip bool
	}{
		{"/health", true},
		{"/health/db", true},
		{"/auth/login", true},
		{"/auth/register", true},
		{"/beds-ext/" + uuid.NewString(), true},
		{"/medication-ext/finish/bed/" + uuid.NewString(), true},
		{"/api/v1/beds", false},
		{"/api/v1/notifications", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if got := Skipper(c); got != tc.skip {
			t.Errorf("Skipper(%s) = %v, want %v", tc.path, got, tc.skip)
		}
	}
}
