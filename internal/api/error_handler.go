package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders the
// shared error page. Authentication and authorization failures never reach
// this handler; the middleware resolves them as redirects. What arrives
// here is missing pages and genuine store failures.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		page := view.Page{
			Title:   fmt.Sprintf("%d %s", code, http.StatusText(code)),
			Visitor: middleware.Visitor(c),
			Data:    struct{ Message string }{msg},
		}
		if renderErr := c.Render(code, "error", page); renderErr != nil {
			log.Error().Err(renderErr).Msg("error page render failed")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic pages.
	switch {
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound, "Sorry, that vehicle could not be found."
	case errors.Is(err, domain.ErrClassificationNotFound):
		return http.StatusNotFound, "Sorry, that classification could not be found."
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "Sorry, that account could not be found."
	}

	// Unexpected error: log the real cause, render a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Oh no! There was a crash. Maybe try a different route?"
}
