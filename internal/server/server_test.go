package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-go/internal/catalog"
	"catalog-go/internal/progress"
	"catalog-go/internal/testutil"
)

type testServer struct {
	*testutil.ServiceFixture
	server *Server
	events *progress.Broadcaster
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	events := progress.NewBroadcaster()
	fx := testutil.NewTestService(t, events)
	t.Cleanup(events.Close)
	return &testServer{
		ServiceFixture: fx,
		server:         New(context.Background(), fx.Service, events, nil),
		events:         events,
	}
}

func (ts *testServer) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestRegisterAndListLocations(t *testing.T) {
	ts := newTestServer(t)
	ts.FS.AddDirectory("/data")

	rec := ts.do(t, http.MethodPost, "/api/locations", map[string]any{
		"library_id": 1,
		"name":       "data",
		"path":       "/data",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	loc := decode[locationView](t, rec)
	assert.Equal(t, "/data", loc.Path)
	assert.True(t, loc.IsOnline)
	require.NotNil(t, loc.TotalCapacity)
	assert.Equal(t, int64(1000), *loc.TotalCapacity)

	rec = ts.do(t, http.MethodPost, "/api/locations", map[string]any{"library_id": 1, "name": "usb", "is_removable": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.False(t, decode[locationView](t, rec).IsOnline)

	rec = ts.do(t, http.MethodGet, "/api/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]locationView](t, rec), 2)

	rec = ts.do(t, http.MethodGet, "/api/locations?online=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	online := decode[[]locationView](t, rec)
	require.Len(t, online, 1)
	assert.Equal(t, loc.ID, online[0].ID)
}

func TestSetLocationOnline(t *testing.T) {
	ts := newTestServer(t)
	id := ts.AddLocation(t, "/data")

	rec := ts.do(t, http.MethodPost, "/api/locations/1/online", map[string]bool{"online": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[locationView](t, rec).IsOnline)

	rec = ts.do(t, http.MethodPost, "/api/locations/1/scan", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "scan of offline location %d", id)

	rec = ts.do(t, http.MethodPost, "/api/locations/42/online", map[string]bool{"online": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
		want   int
	}{
		{"unknown file", http.MethodGet, "/api/files/99", nil, http.StatusNotFound},
		{"unknown job", http.MethodGet, "/api/jobs/nope", nil, http.StatusNotFound},
		{"non-numeric id", http.MethodGet, "/api/files/abc", nil, http.StatusUnprocessableEntity},
		{"missing path", http.MethodPost, "/api/locations", map[string]any{"library_id": 1}, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/api/locations", map[string]any{"library_id": 1, "path": "/x", "bogus": 1}, http.StatusUnprocessableEntity},
		{"unknown library", http.MethodPost, "/api/locations", map[string]any{"library_id": 9, "path": "/x"}, http.StatusNotFound},
		{"bad tier", http.MethodPost, "/api/locations/1/checksum", map[string]any{"tier": "medium"}, http.StatusUnprocessableEntity},
		{"no statistics yet", http.MethodGet, "/api/libraries/1/statistics/latest", nil, http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/locations", nil, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want != http.StatusMethodNotAllowed {
				assert.Contains(t, decode[map[string]string](t, rec), "error")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{catalog.ErrNotFound, http.StatusNotFound},
		{catalog.ErrDuplicateKey, http.StatusConflict},
		{catalog.ErrInvalidTransition, http.StatusConflict},
		{catalog.ErrLocationOffline, http.StatusConflict},
		{catalog.ErrCycleDetected, http.StatusUnprocessableEntity},
		{catalog.ErrInvariantViolation, http.StatusUnprocessableEntity},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "statusFor(%v)", tt.err)
	}
}

func TestScanEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.AddLocation(t, "/data")
	ts.FS.AddFile("/data/photos/beach.jpg", []byte("sand"))
	ts.FS.AddFile("/data/notes.txt", []byte("hello"))

	rec := ts.do(t, http.MethodPost, "/api/locations/1/scan", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decode[jobView](t, rec)
	assert.Equal(t, "scan", job.Action)
	assert.Equal(t, testutil.TestClientID, job.ClientID)

	ts.Service.Wait()

	rec = ts.do(t, http.MethodGet, "/api/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[jobView](t, rec)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, int64(100), done.PercentageComplete)

	rec = ts.do(t, http.MethodGet, "/api/locations/1/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	roots := decode[[]fileView](t, rec)
	require.Len(t, roots, 2)

	var photos fileView
	for _, f := range roots {
		if f.Name == "photos" {
			photos = f
		}
	}
	require.True(t, photos.IsDir)

	rec = ts.do(t, http.MethodGet, "/api/files/"+itoa(photos.ID)+"/children", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	children := decode[[]fileView](t, rec)
	require.Len(t, children, 1)
	assert.Equal(t, "photos/beach", children[0].Stem)
	assert.Equal(t, "jpg", children[0].Extension)
	assert.Equal(t, testutil.QuickSum([]byte("sand")), children[0].QuickChecksum)
	assert.Equal(t, "4", children[0].SizeInBytes)

	rec = ts.do(t, http.MethodGet, "/api/clients/"+testutil.TestClientID+"/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]jobView](t, rec), 1)
}

func TestChecksumEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.AddLocation(t, "/data")
	ts.FS.AddFile("/data/a.bin", []byte("alpha"))

	rec := ts.do(t, http.MethodPost, "/api/locations/1/scan", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.Service.Wait()

	rec = ts.do(t, http.MethodPost, "/api/locations/1/checksum", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decode[jobView](t, rec)
	assert.Equal(t, "checksum", job.Action)
	ts.Service.Wait()

	rec = ts.do(t, http.MethodGet, "/api/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode[jobView](t, rec).Status)

	rec = ts.do(t, http.MethodGet, "/api/locations/1/files", nil)
	files := decode[[]fileView](t, rec)
	require.Len(t, files, 1)
	assert.Equal(t, testutil.FullSum([]byte("alpha")), files[0].FullChecksum)
}

func TestTagEndpoints(t *testing.T) {
	ts := newTestServer(t)
	locID := ts.AddLocation(t, "/data")
	res, err := ts.Service.UpsertFile(locID, []string{"a.txt"}, catalog.FileMetadata{Size: 1})
	require.NoError(t, err)
	fileID := itoa(res.File.ID)

	rec := ts.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "keep", "color": "#00ff00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decode[tagView](t, rec)
	tagURL := "/api/tags/" + itoa(tag.ID) + "/files/" + fileID

	rec = ts.do(t, http.MethodPut, tagURL, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = ts.do(t, http.MethodPut, tagURL, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[map[string]bool](t, rec)["created"])

	rec = ts.do(t, http.MethodGet, "/api/files/"+fileID+"/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tags := decode[[]tagView](t, rec)
	require.Len(t, tags, 1)
	assert.Equal(t, "keep", tags[0].Name)

	rec = ts.do(t, http.MethodDelete, tagURL, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodDelete, tagURL, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "keep"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/tags/"+itoa(tag.ID)+"/files/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelJob(t *testing.T) {
	ts := newTestServer(t)
	job, err := ts.Service.CreateJob(catalog.JobParams{Action: catalog.ActionStatistics, Data: `{"library_id":1}`})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodGet, "/api/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]jobView](t, rec), 1)

	rec = ts.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "canceled", decode[jobView](t, rec).Status)

	rec = ts.do(t, http.MethodPost, "/api/jobs/"+job.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/jobs", nil)
	assert.Empty(t, decode[[]jobView](t, rec))
}

func TestStatisticsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	locID := ts.AddLocation(t, "/data")
	_, err := ts.Service.UpsertFile(locID, []string{"a.txt"}, catalog.FileMetadata{Size: 25})
	require.NoError(t, err)

	rec := ts.do(t, http.MethodPost, "/api/libraries/1/statistics", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	captured := decode[statisticsView](t, rec)
	assert.Equal(t, int64(1), captured.TotalFileCount)
	assert.Equal(t, "25", captured.TotalBytesUsed)

	rec = ts.do(t, http.MethodGet, "/api/libraries/1/statistics/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, captured, decode[statisticsView](t, rec))

	rec = ts.do(t, http.MethodPost, "/api/libraries/7/statistics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "catalog_http_requests_total")
	assert.Contains(t, body, `route="/healthz"`)
	assert.False(t, strings.Contains(body, `route="/metrics"`), "metrics endpoint should not record itself")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
