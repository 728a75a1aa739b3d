package domain

import "time"

// Activity actions recorded in the audit trail.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionUploaded = "uploaded"
)

// Activity is an audit record of a mutation on a task or one of its children.
type Activity struct {
	TaskID   int64
	Entity   string // "task", "comment", "attachment", "label"
	EntityID int64
	Action   string
	ActorID  string
	At       time.Time
}
