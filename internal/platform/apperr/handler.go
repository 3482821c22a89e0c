package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPErrorHandler returns an echo error handler translating application
// errors to {message, error?} JSON bodies. Internal details are logged but
// only surfaced in the response during development.
func HTTPErrorHandler(logger zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := map[string]interface{}{"message": "internal server error"}

		if appErr, ok := As(err); ok {
			status = appErr.HTTPStatus()
			body["message"] = appErr.Message
			for k, v := range appErr.Extra {
				body[k] = v
			}
			if appErr.Kind == KindInternal {
				logger.Error().Err(err).Str("path", c.Path()).Msg("internal error")
				if dev && appErr.cause != nil {
					body["error"] = appErr.cause.Error()
				}
			}
		} else if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
			body["message"] = httpErr.Message
		} else {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			if dev {
				body["error"] = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
