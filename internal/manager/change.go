package manager

import "task-tracker-api/internal/models"

// ChangeOp names the kind of mutation a Change describes.
type ChangeOp string

const (
	OpCreated ChangeOp = "created"
	OpUpdated ChangeOp = "updated"
	OpDeleted ChangeOp = "deleted"
	OpCleared ChangeOp = "cleared"
)

// Change describes one committed mutation. ID is zero for OpCleared.
// Deleting an epic is reported once, not once per cascaded subtask.
type Change struct {
	Op   ChangeOp
	Kind models.TaskType
	ID   int
}
