package middleware

import (
	"errors"
	"net/http"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorHandler writes every error as the {success:false, message} envelope.
// When debug is set, unexpected errors also carry their text under "stack".
func ErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperror.HTTPStatus(err)
		message := apperror.PublicMessage(err)

		var httpErr *echo.HTTPError
		if apperror.KindOf(err) == apperror.KindUnexpected && errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		}

		body := echo.Map{"success": false, "message": message}
		if status >= http.StatusInternalServerError {
			logger.FromEcho(c).Error("Request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			if debug {
				body["stack"] = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.FromEcho(c).Error("Failed to write error response", zap.Error(err))
		}
	}
}
