package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
)

const apiPrefix = "/api/v1/"

// Audit logs who touched which patient data. Only /api/v1 routes are audited;
// the resource is the first path segment after the prefix and the patient id
// is taken from /patients/:id or the patient_id query parameter.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, apiPrefix) {
				return next(c)
			}

			err := next(c)

			roles := auth.RolesFromContext(c.Request().Context())
			roleNames := make([]string, len(roles))
			for i, r := range roles {
				roleNames[i] = string(r)
			}
			rid, _ := c.Get("request_id").(string)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", rid).
				Str("user_id", auth.UserIDFromContext(c.Request().Context())).
				Strs("user_roles", roleNames).
				Str("resource", resourceOf(req.URL.Path)).
				Str("patient_id", patientOf(c)).
				Str("action", actionOf(req.Method)).
				Int("status", status).
				Str("remote_ip", c.RealIP()).
				Msg("data_access")

			return err
		}
	}
}

func actionOf(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// resourceOf returns the first segment after /api/v1/ ("appointments").
func resourceOf(path string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, apiPrefix), "/")
	if seg == "" {
		return "unknown"
	}
	return seg
}

func patientOf(c echo.Context) string {
	rest, ok := strings.CutPrefix(c.Request().URL.Path, apiPrefix+"patients/")
	if ok {
		id, _, _ := strings.Cut(rest, "/")
		if id != "" {
			return id
		}
	}
	return c.QueryParam("patient_id")
}
