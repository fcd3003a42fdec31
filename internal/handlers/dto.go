package handlers

import (
	"fmt"
	"math"
	"strings"
	"time"

	"task-tracker-api/internal/models"
)

// TimeLayout is the start/end time format used on the wire. Times are UTC.
const TimeLayout = "2006-01-02 15:04"

// MaxDurationMinutes is the longest duration a time.Duration can hold.
const MaxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// TaskRequest is the payload for creating or updating any record kind.
// Status, schedule and epicId are ignored where the kind derives them.
type TaskRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	StartTime   string            `json:"startTime"`
	Duration    int64             `json:"duration" binding:"min=0"` // minutes
	EpicID      int               `json:"epicId"`
}

// TaskResponse is the wire form of a stored record.
type TaskResponse struct {
	ID          int               `json:"id"`
	Type        models.TaskType   `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	StartTime   string            `json:"startTime,omitempty"`
	EndTime     string            `json:"endTime,omitempty"`
	Duration    int64             `json:"duration"` // minutes
	EpicID      int               `json:"epicId,omitempty"`
	SubtaskIDs  []int             `json:"subtaskIds,omitempty"`
}

// parseTime accepts the wire layout plus a few common alternatives and
// returns the instant in UTC. An empty string means unscheduled.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		TimeLayout,         // 2025-01-01 12:00
		"2006-01-02T15:04", // HTML datetime-local
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid startTime %q, expected format %q", s, TimeLayout)
}

func (r TaskRequest) validate() error {
	if r.Status != "" && !r.Status.Valid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	if r.Duration > MaxDurationMinutes {
		return fmt.Errorf("duration %d exceeds the maximum of %d minutes", r.Duration, MaxDurationMinutes)
	}
	_, err := parseTime(r.StartTime)
	return err
}

// toTask converts a validated request into an unstored record of kind.
func (r TaskRequest) toTask(kind models.TaskType) models.Task {
	start, _ := parseTime(r.StartTime)
	t := models.Task{
		Type:        kind,
		Name:        r.Name,
		Description: r.Description,
		Status:      r.Status,
		StartTime:   start,
		Duration:    time.Duration(r.Duration) * time.Minute,
	}
	if kind == models.TypeSubtask {
		t.EpicID = r.EpicID
	}
	return t
}

func toResponse(t models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Type:        t.Type,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		Duration:    int64(t.Duration / time.Minute),
		EpicID:      t.EpicID,
		SubtaskIDs:  t.SubtaskIDs,
	}
	if t.IsScheduled() {
		resp.StartTime = t.StartTime.UTC().Format(TimeLayout)
		resp.EndTime = t.EndTime().UTC().Format(TimeLayout)
	}
	return resp
}

func toResponses(tasks []models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t))
	}
	return out
}
