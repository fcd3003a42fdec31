package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_ReceivesChangeEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub()
	h := New(manager.New(manager.Options{OnChange: hub.Notify}), hub, testutil.DiscardLogger())

	r := gin.New()
	r.GET("/ws", h.Subscribe)
	r.POST("/tasks", h.CreateTask)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	res, err := http.Post(srv.URL+"/tasks", "application/json", strings.NewReader(`{"name":"a"}`))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt realtime.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	require.Equal(t, realtime.Event{Type: realtime.EventCreated, Kind: models.TypeTask, ID: 1}, evt)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribe_RejectsPlainHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewHub()
	h := New(manager.New(manager.Options{}), hub, testutil.DiscardLogger())

	r := gin.New()
	r.GET("/ws", h.Subscribe)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, hub.Len())
}

func TestWSClient_SendNeverBlocks(t *testing.T) {
	c := newWSClient(nil)

	for i := 0; i < wsSendBuffer; i++ {
		require.True(t, c.Send([]byte("event")))
	}

	done := make(chan bool, 1)
	go func() { done <- c.Send([]byte("overflow")) }()
	select {
	case ok := <-done:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full client")
	}

	c.Close()
	c.Close()
	<-c.send
	require.False(t, c.Send([]byte("after close")))
}

func TestHubBroadcast_StalledClientDoesNotDelayOthers(t *testing.T) {
	hub := realtime.NewHub()
	stalled := newWSClient(nil)
	hub.Register(stalled)
	for i := 0; i < wsSendBuffer; i++ {
		require.True(t, stalled.Send([]byte("queued")))
	}
	live := &recordingClient{}
	hub.Register(live)

	start := time.Now()
	hub.Notify(manager.Change{Op: manager.OpCreated, Kind: models.TypeTask, ID: 1})
	require.Less(t, time.Since(start), time.Second)
	require.Len(t, live.Events(), 1)
}
