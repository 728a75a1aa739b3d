package domain

import "time"

// Comment is a note left by AuthorID on a task.
type Comment struct {
	ID        int64
	TaskID    int64
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
