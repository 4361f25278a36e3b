package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/pkg/result"
)

// User-facing failure messages.
const (
	MsgUnauthorized  = "Non autorisé"
	MsgNotFound      = "Ressource introuvable"
	MsgIllegalState  = "Cette action n'est plus possible pour ce rendez-vous"
	MsgInternalError = "Erreur interne du serveur"
)

// ErrorHandler renders every error as a result envelope. Application errors
// map to a status by kind; upstream and unexpected causes are logged and
// replaced by a generic message.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Int("status", status).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}

func render(err error) (int, result.Envelope) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, _ := he.Message.(string)
		switch {
		case he.Code == http.StatusUnauthorized || he.Code == http.StatusForbidden:
			msg = MsgUnauthorized
		case he.Code >= http.StatusInternalServerError:
			msg = MsgInternalError
		case msg == "":
			msg = http.StatusText(he.Code)
		}
		return he.Code, result.Failure(msg)
	}

	status := apperr.HTTPStatus(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		var ae *apperr.Error
		errors.As(err, &ae)
		msg := ae.Message
		if msg == "" {
			msg = "Données invalides"
		}
		return status, result.Invalid(msg, ae.Fields)
	case apperr.KindAuthorization:
		return status, result.Failure(MsgUnauthorized)
	case apperr.KindNotFound:
		return status, result.Failure(MsgNotFound)
	case apperr.KindIllegalTransition:
		return status, result.Failure(MsgIllegalState)
	default:
		return status, result.Failure(MsgInternalError)
	}
}
