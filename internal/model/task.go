package model

import "time"

// Status is the closed set of task states. Transitions are unconstrained
// beyond enum membership.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ParseStatus validates a raw status string against the closed enum.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(raw), true
	default:
		return "", false
	}
}

// Task is a unit of work owned by a user. UserID is empty only when an admin
// creates a task without an owner; once set, the owner (or an admin) is the
// only caller allowed to mutate or delete it.
type Task struct {
	ID          string    `bson:"_id" json:"id"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category"`
	Status      Status    `bson:"status" json:"status"`
	UserID      string    `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
