package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"data-fetch-agent/internal/model"
)

// NewHTTPErrorHandler returns an echo error handler that renders every error,
// including routing misses, body limit violations and recovered panics, as a
// failure envelope.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "error_handler")

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := errorMessage(err)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Internal != nil {
				logger.Debug("http error", "code", code, "internal", he.Internal)
			}
			switch m := he.Message.(type) {
			case string:
				msg = m
			case nil:
				msg = http.StatusText(code)
			default:
				msg = fmt.Sprint(m)
			}
		} else {
			logger.Error("unhandled error", "err", err, "path", c.Request().URL.Path)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, model.Failure(msg))
		}
		if werr != nil {
			logger.Error("writing error response", "err", werr)
		}
	}
}
