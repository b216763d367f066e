package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/game"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestStreamRequiresSession(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).router())
	defer ts.Close()

	conn := dialStream(t, ts)

	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "No game initialized", msg["error"])
}

func TestStreamDeliversFrames(t *testing.T) {
	r := newTestServer(t).router()
	ts := httptest.NewServer(r)
	defer ts.Close()

	w := doRequest(t, r, http.MethodPost, "/api/game/initialize", exampleGame(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	conn := dialStream(t, ts)

	var first frameMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.True(t, strings.HasPrefix(first.Frame, "data:image/png;base64,"), "frame prefix: %.40s", first.Frame)
	assert.Equal(t, 100, first.GameState.Health)
	assert.Greater(t, first.Timestamp, 0.0)

	var second frameMessage
	require.NoError(t, conn.ReadJSON(&second))
	assert.GreaterOrEqual(t, second.Timestamp, first.Timestamp)
	assert.Greater(t, second.GameState.Time, first.GameState.Time, "each frame advances the clock")
}

func TestStreamHandlesResetMessage(t *testing.T) {
	r := newTestServer(t).router()
	ts := httptest.NewServer(r)
	defer ts.Close()

	w := doRequest(t, r, http.MethodPost, "/api/game/initialize", exampleGame(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	conn := dialStream(t, ts)

	// Let the clock run a little before asking for a reset.
	var before frameMessage
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.ReadJSON(&before))
	}
	require.Greater(t, before.GameState.Time, 0.03)

	require.NoError(t, conn.WriteJSON(controlMessage{Type: "reset"}))

	// The reset lands between ticks; the clock must restart below the
	// watermark within a bounded number of frames.
	deadline := 120
	for i := 0; i < deadline; i++ {
		var msg frameMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.GameState.Time < before.GameState.Time {
			return
		}
	}
	t.Fatalf("clock never restarted after reset (still at %.3fs)", before.GameState.Time)
}

func TestStreamIgnoresMalformedMessages(t *testing.T) {
	r := newTestServer(t).router()
	ts := httptest.NewServer(r)
	defer ts.Close()

	w := doRequest(t, r, http.MethodPost, "/api/game/initialize", exampleGame(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	conn := dialStream(t, ts)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// Stream keeps flowing despite the garbage.
	var msg frameMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, strings.HasPrefix(msg.Frame, "data:image/png;base64,"))
}
