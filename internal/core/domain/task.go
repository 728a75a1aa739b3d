package domain

import (
	"strings"
	"time"
)

// DefaultDueIn is applied when a task is created without a due date.
const DefaultDueIn = 7 * 24 * time.Hour

// Task is the core aggregate. OwnerID is the creator; AssigneeID is optional.
type Task struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	OwnerID     string
	AssigneeID  *string
	CategoryID  int64
	DueDate     time.Time
	CreatedAt   time.Time

	// Populated by read queries only.
	Category        *Category
	Labels          []Label
	AttachmentCount int
	CommentCount    int
}

// TaskSortKey is the allow-listed ordering for task listings.
type TaskSortKey string

const (
	SortByID        TaskSortKey = "id"
	SortByTitle     TaskSortKey = "title"
	SortByDueDate   TaskSortKey = "duedate"
	SortByCreatedAt TaskSortKey = "createdat"
)

// ParseTaskSortKey maps a raw sortBy value to a TaskSortKey. Empty input
// selects SortByID; anything outside the allow-list is a validation error.
func ParseTaskSortKey(raw string) (TaskSortKey, error) {
	switch TaskSortKey(lower(raw)) {
	case "", SortByID:
		return SortByID, nil
	case SortByTitle:
		return SortByTitle, nil
	case SortByDueDate:
		return SortByDueDate, nil
	case SortByCreatedAt:
		return SortByCreatedAt, nil
	}
	return "", NewValidationError("sortBy", "sortBy must be one of: id, title, duedate, createdat")
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
