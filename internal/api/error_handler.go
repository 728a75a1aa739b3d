package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/api/metrics"
	"github.com/taskflow/taskboard/internal/core/domain"
)

const mimeProblemJSON = "application/problem+json"

// problem is the RFC 7807 envelope rendered for every error response.
type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Debug  string            `json:"debug,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders them as problem+json. With debug set,
// 5xx responses carry the underlying error text.
func NewHTTPErrorHandler(log zerolog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		p := resolveError(err)
		switch {
		case p.Status >= http.StatusInternalServerError:
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", p.Status).
				Msg("request failed")
			if debug {
				p.Debug = err.Error()
			}
		case p.Status == http.StatusForbidden:
			metrics.ForbiddenTotal.WithLabelValues(c.Path()).Inc()
		}

		c.Response().Header().Set(echo.HeaderContentType, mimeProblemJSON)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(p.Status)
			return
		}
		_ = c.JSON(p.Status, p)
	}
}

func resolveError(err error) problem {
	// Echo's own errors (bind failures, unknown routes, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return newProblem(he.Code, fmt.Sprintf("%v", he.Message))
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		p := newProblem(http.StatusBadRequest, "One or more validation errors occurred.")
		p.Errors = ve.Fields
		return p
	}

	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		status := ue.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return newProblem(status, ue.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return newProblem(http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, domain.ErrForbidden):
		return newProblem(http.StatusForbidden, "You do not have permission to perform this action")
	case errors.Is(err, domain.ErrNotFound):
		return newProblem(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return newProblem(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUpstreamData):
		return newProblem(http.StatusBadGateway, "Invalid data received from the identity provider")
	}

	return newProblem(http.StatusInternalServerError, "An unexpected error occurred")
}

func newProblem(status int, detail string) problem {
	return problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}
