package models

import (
	"fmt"
	"slices"
	"time"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusNew        TaskStatus = "NEW"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts the stored/transport form of a status.
func ParseStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown task status %q", s)
	}
	return status, nil
}

// TaskType represents the kind of a record (task, epic, subtask)
type TaskType string

const (
	TypeTask    TaskType = "TASK"
	TypeEpic    TaskType = "EPIC"
	TypeSubtask TaskType = "SUBTASK"
)

// Valid reports whether t is one of the known record kinds.
func (t TaskType) Valid() bool {
	switch t {
	case TypeTask, TypeEpic, TypeSubtask:
		return true
	}
	return false
}

// ParseType converts the stored/transport form of a record kind.
func ParseType(s string) (TaskType, error) {
	kind := TaskType(s)
	if !kind.Valid() {
		return "", fmt.Errorf("unknown task type %q", s)
	}
	return kind, nil
}

// Task is a single tracked record. Type selects which of the kind-specific
// fields are meaningful: SubtaskIDs for epics, EpicID for subtasks.
//
// An ID of 0 means the record has not been stored yet. A zero StartTime
// means the record is unscheduled.
type Task struct {
	ID          int
	Type        TaskType
	Name        string
	Description string
	Status      TaskStatus
	StartTime   time.Time
	Duration    time.Duration

	// SubtaskIDs lists the epic's subtasks in insertion order.
	SubtaskIDs []int
	// EpicID is the owning epic of a subtask.
	EpicID int
}

// NewTask builds an unstored plain task.
func NewTask(name, description string, status TaskStatus, start time.Time, duration time.Duration) Task {
	return Task{
		Type:        TypeTask,
		Name:        name,
		Description: description,
		Status:      status,
		StartTime:   start,
		Duration:    duration,
	}
}

// NewEpic builds an unstored epic. Its status and schedule are derived once stored.
func NewEpic(name, description string) Task {
	return Task{
		Type:        TypeEpic,
		Name:        name,
		Description: description,
		Status:      StatusNew,
	}
}

// NewSubTask builds an unstored subtask. The owning epic is assigned when it is added.
func NewSubTask(name, description string, status TaskStatus, start time.Time, duration time.Duration) Task {
	t := NewTask(name, description, status, start, duration)
	t.Type = TypeSubtask
	return t
}

// IsScheduled reports whether the record claims a time window.
func (t Task) IsScheduled() bool {
	return !t.StartTime.IsZero()
}

// EndTime is StartTime plus Duration, or the zero time when unscheduled.
func (t Task) EndTime() time.Time {
	if !t.IsScheduled() {
		return time.Time{}
	}
	return t.StartTime.Add(t.Duration)
}

// Clone returns a copy that shares no mutable state with t.
func (t Task) Clone() Task {
	c := t
	if t.SubtaskIDs != nil {
		c.SubtaskIDs = slices.Clone(t.SubtaskIDs)
	}
	return c
}

// Overlaps reports whether the [start, end) windows of a and b intersect.
// Unscheduled records never overlap anything.
func Overlaps(a, b Task) bool {
	if !a.IsScheduled() || !b.IsScheduled() {
		return false
	}
	return a.StartTime.Before(b.EndTime()) && b.StartTime.Before(a.EndTime())
}

// SameEntity reports whether a and b are the same logical record.
func SameEntity(a, b Task) bool {
	return a.ID == b.ID
}

// Equal compares every field of a and b.
func Equal(a, b Task) bool {
	return a.ID == b.ID &&
		a.Type == b.Type &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Status == b.Status &&
		a.StartTime.Equal(b.StartTime) &&
		a.Duration == b.Duration &&
		a.EpicID == b.EpicID &&
		slices.Equal(a.SubtaskIDs, b.SubtaskIDs)
}
