package handlers

import (
	"net/http"
	"testing"

	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCreateEpic_IgnoresStatusAndSchedule(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/epics", gin.H{
		"name":      "Release",
		"status":    "DONE",
		"startTime": "2025-03-10 09:00",
		"duration":  60,
	})
	requireStatus(t, w, http.StatusCreated)

	epic := decode[TaskResponse](t, w)
	require.Equal(t, models.TypeEpic, epic.Type)
	require.Equal(t, models.StatusNew, epic.Status)
	require.Empty(t, epic.StartTime)
	require.Zero(t, epic.Duration)
	require.Empty(t, env.manager.GetPrioritizedTasks())
}

func TestEpicAggregatesSubtasks(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)

	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{
		"name": "s1", "status": "DONE", "epicId": 1,
		"startTime": "2025-03-10 09:00", "duration": 30,
	}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{
		"name": "s2", "status": "NEW", "epicId": 1,
		"startTime": "2025-03-10 11:00", "duration": 60,
	}), http.StatusCreated)

	w := env.do(t, http.MethodGet, "/epics/1", nil)
	requireStatus(t, w, http.StatusOK)
	epic := decode[TaskResponse](t, w)
	require.Equal(t, models.StatusInProgress, epic.Status)
	require.Equal(t, []int{2, 3}, epic.SubtaskIDs)
	require.Equal(t, "2025-03-10 09:00", epic.StartTime)
	require.Equal(t, "2025-03-10 12:00", epic.EndTime)
	require.Equal(t, int64(180), epic.Duration)
}

func TestUpdateEpic_KeepsSubtasks(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{
		"name": "s", "status": "DONE", "epicId": 1,
	}), http.StatusCreated)

	w := env.do(t, http.MethodPost, "/epics/1", gin.H{"name": "renamed", "status": "NEW"})
	requireStatus(t, w, http.StatusOK)
	epic := decode[TaskResponse](t, w)
	require.Equal(t, "renamed", epic.Name)
	require.Equal(t, models.StatusDone, epic.Status)
	require.Equal(t, []int{2}, epic.SubtaskIDs)

	requireStatus(t, env.do(t, http.MethodPut, "/epics/7", gin.H{"name": "x"}), http.StatusNotFound)
}

func TestGetEpicSubtasks(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "empty"}), http.StatusCreated)
	for _, name := range []string{"s1", "s2"} {
		requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{"name": name, "epicId": 1}), http.StatusCreated)
	}

	w := env.do(t, http.MethodGet, "/epics/1/subtasks", nil)
	requireStatus(t, w, http.StatusOK)
	body := decode[listBody](t, w)
	require.Equal(t, []int{3, 4}, ids(body.SubTasks))

	w = env.do(t, http.MethodGet, "/epics/2/subtasks", nil)
	requireStatus(t, w, http.StatusOK)
	require.Zero(t, decode[listBody](t, w).Count)

	requireStatus(t, env.do(t, http.MethodGet, "/epics/9/subtasks", nil), http.StatusNotFound)
	require.Empty(t, env.manager.GetHistory())
}

func TestDeleteEpic_Cascades(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{
		"name": "s", "epicId": 1, "startTime": "2025-03-10 09:00", "duration": 30,
	}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodGet, "/subtasks/2", nil), http.StatusOK)

	requireStatus(t, env.do(t, http.MethodDelete, "/epics/1", nil), http.StatusOK)
	require.Empty(t, env.manager.Epics())
	require.Empty(t, env.manager.SubTasks())
	require.Empty(t, env.manager.GetHistory())
	require.Empty(t, env.manager.GetPrioritizedTasks())

	requireStatus(t, env.do(t, http.MethodDelete, "/epics/1", nil), http.StatusNotFound)
}

func TestDeleteAllEpics(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{"name": "s", "epicId": 1}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/tasks", gin.H{"name": "t"}), http.StatusCreated)

	requireStatus(t, env.do(t, http.MethodDelete, "/epics", nil), http.StatusOK)
	require.Empty(t, env.manager.Epics())
	require.Empty(t, env.manager.SubTasks())
	require.Len(t, env.manager.Tasks(), 1)
}
