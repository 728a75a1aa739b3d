package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUpstreamData    = errors.New("invalid data from identity provider")
)

// Entity-scoped not-found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrTaskNotFound       = fmt.Errorf("task %w", ErrNotFound)
	ErrCommentNotFound    = fmt.Errorf("comment %w", ErrNotFound)
	ErrAttachmentNotFound = fmt.Errorf("attachment %w", ErrNotFound)
	ErrLabelNotFound      = fmt.Errorf("label %w", ErrNotFound)
	ErrCategoryNotFound   = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrBlobNotFound       = fmt.Errorf("blob %w", ErrNotFound)
)

// ValidationError carries per-field messages keyed by the request field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UpstreamError reports a non-success response from the identity provider.
// Status is the upstream HTTP status code and is propagated to the client.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("identity provider: %s (status %d)", e.Message, e.Status)
}
