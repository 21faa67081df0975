package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-go/internal/catalog"
)

func dialEvents(t *testing.T, ts *testServer, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(ts.server.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return ts.events.Subscribers() == 1 },
		time.Second, 10*time.Millisecond, "subscriber was not registered")
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) catalog.ProgressUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var update catalog.ProgressUpdate
	require.NoError(t, conn.ReadJSON(&update))
	return update
}

func TestStreamEvents(t *testing.T) {
	ts := newTestServer(t)
	conn := dialEvents(t, ts, "")

	job, err := ts.Service.CreateJob(catalog.JobParams{Action: catalog.ActionStatistics, Data: `{"library_id":1}`})
	require.NoError(t, err)

	update := readUpdate(t, conn)
	assert.Equal(t, job.ID, update.JobID)
	assert.Equal(t, catalog.JobQueued, update.Status)

	_, err = ts.Service.CancelJob(job.ID)
	require.NoError(t, err)

	update = readUpdate(t, conn)
	assert.Equal(t, job.ID, update.JobID)
	assert.Equal(t, catalog.JobCanceled, update.Status)
}

func TestStreamEventsFiltersByClient(t *testing.T) {
	ts := newTestServer(t)
	conn := dialEvents(t, ts, "?client_id=laptop")

	_, err := ts.Service.CreateJob(catalog.JobParams{ClientID: "desktop", Action: catalog.ActionScan})
	require.NoError(t, err)
	mine, err := ts.Service.CreateJob(catalog.JobParams{ClientID: "laptop", Action: catalog.ActionScan})
	require.NoError(t, err)

	update := readUpdate(t, conn)
	assert.Equal(t, mine.ID, update.JobID)
	assert.Equal(t, "laptop", update.ClientID)
}

func TestStreamEventsClosesOnShutdown(t *testing.T) {
	ts := newTestServer(t)
	conn := dialEvents(t, ts, "")

	ts.events.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "err = %v", err)

	assert.Eventually(t, func() bool { return ts.events.Subscribers() == 0 },
		time.Second, 10*time.Millisecond)
}
