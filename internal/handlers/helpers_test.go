package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/persistence"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (c *recordingClient) Send(message []byte) bool {
	var evt realtime.Event
	if err := json.Unmarshal(message, &evt); err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return true
}

func (c *recordingClient) Close() {}

func (c *recordingClient) Events() []realtime.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]realtime.Event(nil), c.events...)
}

type testEnv struct {
	router  *gin.Engine
	manager *manager.Manager
	backend *persistence.MemoryBackend
	feed    *recordingClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := persistence.NewMemoryBackend()
	hub := realtime.NewHub()
	feed := &recordingClient{}
	hub.Register(feed)
	m := manager.New(manager.Options{Saver: backend, OnChange: hub.Notify, Logger: testutil.DiscardLogger()})
	h := New(m, hub, testutil.DiscardLogger())

	r := gin.New()
	for _, kind := range []struct {
		path                                  string
		list, get, create, update, del, clear gin.HandlerFunc
	}{
		{"/tasks", h.ListTasks, h.GetTask, h.CreateTask, h.UpdateTask, h.DeleteTask, h.DeleteAllTasks},
		{"/epics", h.ListEpics, h.GetEpic, h.CreateEpic, h.UpdateEpic, h.DeleteEpic, h.DeleteAllEpics},
		{"/subtasks", h.ListSubTasks, h.GetSubTask, h.CreateSubTask, h.UpdateSubTask, h.DeleteSubTask, h.DeleteAllSubTasks},
	} {
		r.GET(kind.path, kind.list)
		r.POST(kind.path, kind.create)
		r.DELETE(kind.path, kind.clear)
		r.GET(kind.path+"/:id", kind.get)
		r.PUT(kind.path+"/:id", kind.update)
		r.POST(kind.path+"/:id", kind.update)
		r.DELETE(kind.path+"/:id", kind.del)
	}
	r.GET("/epics/:id/subtasks", h.GetEpicSubtasks)
	r.GET("/history", h.GetHistory)
	r.GET("/prioritized", h.GetPrioritized)

	return &testEnv{router: r, manager: m, backend: backend, feed: feed}
}

func (e *testEnv) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type listBody struct {
	Tasks    []TaskResponse `json:"tasks"`
	Epics    []TaskResponse `json:"epics"`
	SubTasks []TaskResponse `json:"subtasks"`
	History  []TaskResponse `json:"history"`
	Count    int            `json:"count"`
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
}

func ids(items []TaskResponse) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
