package testutil

import (
	"io"
	"log/slog"
	"time"

	"task-tracker-api/internal/models"
)

// Day is the date every fixture is scheduled on.
var Day = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// At returns Day at hour:minute UTC.
func At(hour, minute int) time.Time {
	return Day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Task returns an unstored NEW task scheduled at start for minutes.
func Task(name string, start time.Time, minutes int) models.Task {
	return models.NewTask(name, name+" description", models.StatusNew, start, time.Duration(minutes)*time.Minute)
}

// SubTask returns an unstored subtask with the given status and schedule.
func SubTask(name string, status models.TaskStatus, start time.Time, minutes int) models.Task {
	return models.NewSubTask(name, name+" description", status, start, time.Duration(minutes)*time.Minute)
}

// Epic returns an unstored epic.
func Epic(name string) models.Task {
	return models.NewEpic(name, name+" description")
}

// IDs extracts the ids of tasks in order.
func IDs(tasks []models.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
