package service

import (
	"fmt"

	"github.com/taskflow/taskboard/internal/core/domain"
)

const (
	defaultTaskPageSize    = 10
	defaultCommentPageSize = 5
	maxPageSize            = 100
)

// pageParams applies defaults to unset paging values and rejects out-of-range ones.
func pageParams(number, size, defaultSize int) (int, int, error) {
	if number == 0 {
		number = 1
	}
	if size == 0 {
		size = defaultSize
	}

	fields := map[string]string{}
	if number < 1 {
		fields["pageNumber"] = "pageNumber must be greater than or equal to 1"
	}
	if size < 1 || size > maxPageSize {
		fields["pageSize"] = fmt.Sprintf("pageSize must be between 1 and %d", maxPageSize)
	}
	if len(fields) > 0 {
		return 0, 0, &domain.ValidationError{Fields: fields}
	}
	return number, size, nil
}
