package persistence

import (
	"time"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/testutil"
)

// sampleSnapshot holds one record of every kind, with awkward text fields.
func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Tasks: []models.Task{
			{ID: 1, Type: models.TypeTask, Name: "write, review", Description: `says "hi"`, Status: models.StatusNew, StartTime: testutil.At(12, 0), Duration: 300 * time.Minute},
			{ID: 4, Type: models.TypeTask, Name: "someday", Description: "multi\nline", Status: models.StatusDone},
		},
		Epics: []models.Task{
			{ID: 2, Type: models.TypeEpic, Name: "release", Description: "", Status: models.StatusInProgress, StartTime: testutil.At(9, 0), Duration: 2 * time.Hour},
		},
		SubTasks: []models.Task{
			{ID: 3, Type: models.TypeSubtask, Name: "tag", Description: "git tag", Status: models.StatusDone, StartTime: testutil.At(9, 0), Duration: 30 * time.Minute, EpicID: 2},
			{ID: 5, Type: models.TypeSubtask, Name: "announce", Description: "", Status: models.StatusNew, StartTime: testutil.At(10, 30), Duration: 30 * time.Minute, EpicID: 2},
		},
	}
}
