package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestGetHistory_OrderAndMoveToEnd(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/tasks", gin.H{"name": "t"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{"name": "s", "epicId": 2}), http.StatusCreated)

	for _, path := range []string{"/tasks/1", "/epics/2", "/subtasks/3", "/tasks/1"} {
		requireStatus(t, env.do(t, http.MethodGet, path, nil), http.StatusOK)
	}

	w := env.do(t, http.MethodGet, "/history", nil)
	requireStatus(t, w, http.StatusOK)
	body := decode[listBody](t, w)
	require.Equal(t, 3, body.Count)
	require.Equal(t, []int{2, 3, 1}, ids(body.History))
}

func TestGetHistory_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/history", nil)
	requireStatus(t, w, http.StatusOK)
	require.JSONEq(t, `{"history":[],"count":0}`, w.Body.String())
}

func TestGetPrioritized(t *testing.T) {
	env := newTestEnv(t)
	requireStatus(t, env.do(t, http.MethodPost, "/tasks", gin.H{
		"name": "late", "startTime": "2025-03-10 15:00", "duration": 30,
	}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/tasks", gin.H{"name": "unscheduled"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/epics", gin.H{"name": "e"}), http.StatusCreated)
	requireStatus(t, env.do(t, http.MethodPost, "/subtasks", gin.H{
		"name": "early", "epicId": 3, "startTime": "2025-03-10 08:00", "duration": 30,
	}), http.StatusCreated)

	w := env.do(t, http.MethodGet, "/prioritized", nil)
	requireStatus(t, w, http.StatusOK)
	body := decode[listBody](t, w)
	require.Equal(t, []int{4, 1}, ids(body.Tasks))
}
