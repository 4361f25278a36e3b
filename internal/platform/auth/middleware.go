package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hms/hms/internal/platform/apperr"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
)

// Claims are the bearer token claims the service reads. The role may be
// carried as a list, as a single claim, or inside the provider's metadata.
type Claims struct {
	jwt.RegisteredClaims
	Roles    []string `json:"roles,omitempty"`
	Role     string   `json:"role,omitempty"`
	Metadata struct {
		Role string `json:"role,omitempty"`
	} `json:"metadata,omitempty"`
}

func (c *Claims) roles() []Role {
	all := append([]string{}, c.Roles...)
	if c.Role != "" {
		all = append(all, c.Role)
	}
	if c.Metadata.Role != "" {
		all = append(all, c.Metadata.Role)
	}
	return ParseRoles(all)
}

type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string
	// SigningKey enables HS256 verification for development and tests.
	SigningKey []byte
}

// WithActor returns ctx carrying the authenticated actor.
func WithActor(ctx context.Context, userID string, roles ...Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRolesKey, roles)
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []Role {
	roles, _ := ctx.Value(UserRolesKey).([]Role)
	return roles
}

// SelfServiceSubject returns the actor id when the actor holds only the
// patient role. Such an actor may touch nothing but their own patient data.
func SelfServiceSubject(ctx context.Context) (string, bool) {
	roles := RolesFromContext(ctx)
	if len(roles) != 1 || roles[0] != RolePatient {
		return "", false
	}
	return UserIDFromContext(ctx), true
}

// RequireSubject fails with an authorization error when a self-service actor
// targets a patient other than themself. Other actors always pass.
func RequireSubject(ctx context.Context, patientID string) error {
	if subject, ok := SelfServiceSubject(ctx); ok && subject != patientID {
		return apperr.Unauthorized("Non autorisé")
	}
	return nil
}

// JWTMiddleware verifies the bearer token and stores the subject and roles in
// the request context. Requests matching AuthSkipper pass through untouched.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256", "HS256"})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var keyFunc jwt.Keyfunc
	if len(cfg.SigningKey) > 0 {
		keyFunc = func(*jwt.Token) (interface{}, error) { return cfg.SigningKey, nil }
	} else {
		jwksURL := cfg.JWKSURL
		if jwksURL == "" && cfg.Issuer != "" {
			discovered, err := discoverJWKSURL(cfg.Issuer)
			if err != nil {
				log.Warn().Err(err).Str("issuer", cfg.Issuer).Msg("OIDC discovery failed, tokens will be rejected")
			}
			jwksURL = discovered
		}
		keyFunc = NewJWKSCache(jwksURL, defaultJWKSCacheTTL).keyFunc
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if AuthSkipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			scheme, tokenStr, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenStr) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, keyFunc, opts...)
			if err != nil || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := WithActor(c.Request().Context(), claims.Subject, claims.roles()...)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// DevAuthMiddleware treats requests without a bearer token as the admin
// "dev-user". Requests that do carry a token go through verify, if given.
func DevAuthMiddleware(verify echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		verified := next
		if verify != nil {
			verified = verify(next)
		}
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "" {
				return verified(c)
			}
			ctx := WithActor(c.Request().Context(), "dev-user", RoleAdmin)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
