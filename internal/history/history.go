package history

import "task-tracker-api/internal/models"

// Tracker keeps the de-duplicated, order-preserving log of viewed records.
// Implementations may or may not be goroutine-safe depending on configuration.
type Tracker interface {
	// Add appends a view of task at the newest end. A repeated id is moved
	// rather than duplicated. A nil task is ignored.
	Add(task *models.Task)

	// Remove drops the entry for id if present.
	Remove(id int)

	// History returns the viewed records from oldest to newest. The slice
	// is a copy; mutating it does not affect the tracker.
	History() []models.Task

	// Len returns the number of entries currently tracked.
	Len() int

	// Clear removes all entries.
	Clear()
}
