package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"task-tracker-api/internal/config"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/persistence"
	"task-tracker-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestOpenStore_RestoresAndWritesThrough(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.csv")

	cfg := config.Default()
	cfg.Storage.Path = path

	m, backend, err := openStore(ctx, cfg, testutil.DiscardLogger(), nil)
	require.NoError(t, err)
	epic, err := m.AddEpic(testutil.Epic("release"))
	require.NoError(t, err)
	_, err = m.AddSubTask(testutil.SubTask("tag", models.StatusDone, testutil.At(9, 0), 30), epic.ID)
	require.NoError(t, err)
	_, err = m.AddTask(testutil.Task("notes", testutil.At(11, 0), 60))
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	reopened, backend, err := openStore(ctx, cfg, testutil.DiscardLogger(), nil)
	require.NoError(t, err)
	defer backend.Close()

	got, ok := reopened.GetEpic(epic.ID)
	require.True(t, ok)
	require.Equal(t, []int{2}, got.SubtaskIDs)
	require.Equal(t, models.StatusDone, got.Status)
	require.Equal(t, []int{2, 3}, testutil.IDs(reopened.GetPrioritizedTasks()))

	next, err := reopened.AddTask(testutil.Task("later", testutil.At(14, 0), 15))
	require.NoError(t, err)
	require.Equal(t, 4, next.ID)

	var buf bytes.Buffer
	require.NoError(t, persistence.WriteCSV(&buf, reopened.Snapshot()))
	require.Contains(t, buf.String(), "4,TASK,later,NEW")
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "etcd"

	_, _, err := openStore(context.Background(), cfg, testutil.DiscardLogger(), nil)
	require.Error(t, err)
}
