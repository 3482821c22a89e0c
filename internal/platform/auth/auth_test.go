package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

var testCfg = Config{Secret: []byte("test-secret"), TTL: time.Hour}

func TestGenerateAndVerifyToken(t *testing.T) {
	uid := uuid.New()
	token, err := GenerateToken(testCfg, uid, "DONOR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := parseToken(testCfg, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != uid.String() {
		t.Errorf("expected subject %s, got %s", uid, claims.Subject)
	}
	if claims.Role != "DONOR" {
		t.Errorf("expected role DONOR, got %s", claims.Role)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(testCfg, uuid.New(), "DONOR")
	_, err := parseToken(Config{Secret: []byte("other"), TTL: time.Hour}, token)
	if err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	expired := Config{Secret: testCfg.Secret, TTL: -time.Hour}
	token, _ := GenerateToken(expired, uuid.New(), "DONOR")
	_, err := parseToken(testCfg, token)
	if err == nil {
		t.Error("expected error for expired token")
	}
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return nil })(c)
	return c, err
}

func TestRequired_MissingHeader(t *testing.T) {
	_, err := invoke(t, Required(testCfg), "")
	if !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestRequired_ValidToken(t *testing.T) {
	uid := uuid.New()
	token, _ := GenerateToken(testCfg, uid, "ADMIN")
	c, err := invoke(t, Required(testCfg), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := UserIDFromContext(c.Request().Context()); got != uid {
		t.Errorf("expected user id %s in context, got %s", uid, got)
	}
	if got := RoleFromContext(c.Request().Context()); got != "ADMIN" {
		t.Errorf("expected role ADMIN, got %s", got)
	}
}

func TestOptional_NoToken(t *testing.T) {
	c, err := invoke(t, Optional(testCfg), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := UserIDFromContext(c.Request().Context()); got != uuid.Nil {
		t.Errorf("expected nil user id, got %s", got)
	}
}

func TestOptional_BadTokenPassesThrough(t *testing.T) {
	_, err := invoke(t, Optional(testCfg), "Bearer garbage")
	if err != nil {
		t.Errorf("optional auth must not reject bad tokens, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	uid := uuid.New()
	token, _ := GenerateToken(testCfg, uid, "DONOR")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := Required(testCfg)(RequireRole("ADMIN")(func(c echo.Context) error { return nil }))
	err := chain(c)
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("expected forbidden for DONOR on admin route, got %v", err)
	}
}
