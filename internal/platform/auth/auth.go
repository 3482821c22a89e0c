package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Config holds token signing parameters.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// GenerateToken issues a signed HS256 token for the given user.
func GenerateToken(cfg Config, userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cfg.Secret)
}

func parseToken(cfg Config, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}
	return claims, nil
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func withUser(c echo.Context, claims *Claims) error {
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return apperr.Unauthorized("invalid token subject")
	}
	ctx := c.Request().Context()
	ctx = context.WithValue(ctx, UserIDKey, uid)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}

// Required rejects requests without a valid bearer token.
func Required(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c)
			if tokenStr == "" {
				return apperr.Unauthorized("missing authorization header")
			}
			claims, err := parseToken(cfg, tokenStr)
			if err != nil {
				return err
			}
			if err := withUser(c, claims); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Optional resolves the caller when a valid token is present and passes the
// request through unauthenticated otherwise. Anonymous blood requests rely
// on this.
func Optional(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := bearerToken(c)
			if tokenStr == "" {
				return next(c)
			}
			claims, err := parseToken(cfg, tokenStr)
			if err != nil {
				return next(c)
			}
			if err := withUser(c, claims); err != nil {
				return next(c)
			}
			return next(c)
		}
	}
}

// RequireRole rejects authenticated callers whose role is not in the allowed
// set. Must run after Required.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return apperr.Forbidden("insufficient role")
		}
	}
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil when the
// caller is anonymous.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	uid, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return uid
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}
