package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/api/middleware"
	"github.com/taskflow/taskboard/internal/core/domain"
)

// ctxCaller returns the caller stored by the Auth middleware. A missing or
// anonymous caller is reported as ErrUnauthenticated before any service call.
func ctxCaller(c echo.Context) (domain.Caller, error) {
	caller, ok := c.Get(middleware.CallerKey).(domain.Caller)
	if !ok || caller.ID == "" {
		return domain.Caller{}, domain.ErrUnauthenticated
	}
	return caller, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, name+" must be a valid positive integer")
	}
	return id, nil
}

// bindErrors converts echo binder failures into a field-keyed ValidationError.
func bindErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for _, err := range errs {
		var be *echo.BindingError
		if errors.As(err, &be) {
			fields[be.Field] = be.Field + " has an invalid value"
			continue
		}
		return err
	}
	return &domain.ValidationError{Fields: fields}
}

// bindBody binds the request body into req and runs the registered validator.
func bindBody(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	return c.Validate(req)
}
