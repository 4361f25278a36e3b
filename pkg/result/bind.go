package result

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

// MsgBadPayload answers request bodies that cannot be decoded at all.
const MsgBadPayload = "Données invalides"

// Payload decodes the request body into a generic key-value map, the input
// shape of the validation schemas. Path and query parameters are not merged.
func Payload(c echo.Context) (map[string]any, error) {
	payload := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &payload); err != nil {
		return nil, apperr.Validation(MsgBadPayload, nil)
	}
	return payload, nil
}

// ParamID reads a positive numeric path parameter.
func ParamID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Field(name, "Identifiant invalide")
	}
	return id, nil
}
