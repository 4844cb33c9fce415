package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

func newTestServer(t *testing.T, root string) *httptest.Server {
	t.Helper()
	mc, err := cache.NewMemoryCache(64)
	require.NoError(t, err)
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(mc, cache.NewScopedKeyer(nil, "project:test:"), logger)
	srv := newDiagramServer(root, pipeline.Options{}, runner, observability.NewMetrics(), logger)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServeHealthz(t *testing.T) {
	ts := newTestServer(t, writeProject(t))
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", body)
}

func TestServeVersion(t *testing.T) {
	ts := newTestServer(t, writeProject(t))
	resp, body := get(t, ts.URL+"/version")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &info))
	assert.NotEmpty(t, info["version"])
	assert.NotEmpty(t, info["go_version"])
}

func TestServeDiagram(t *testing.T) {
	ts := newTestServer(t, writeProject(t))

	resp, body := get(t, ts.URL+"/diagram.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(headerRunID))
	assert.Equal(t, "miss", resp.Header.Get(headerCacheStatus))
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, "animateMotion")

	resp, _ = get(t, ts.URL+"/diagram.svg")
	assert.Equal(t, "hit", resp.Header.Get(headerCacheStatus))

	resp, body = get(t, ts.URL+"/diagram.svg?animate=false")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "animateMotion")
}

func TestServeGraphAndLayout(t *testing.T) {
	ts := newTestServer(t, writeProject(t))

	resp, body := get(t, ts.URL+"/graph.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var g struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &g))
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Edges, 2)

	resp, body = get(t, ts.URL+"/layout.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var l struct {
		Width float64           `json:"width"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &l))
	assert.Len(t, l.Nodes, 3)
	assert.Greater(t, l.Width, 0.0)
}

func TestServeBadQuery(t *testing.T) {
	ts := newTestServer(t, writeProject(t))
	resp, body := get(t, ts.URL+"/diagram.svg?animate=sometimes")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "animate")
}

func TestServeMissingRoot(t *testing.T) {
	ts := newTestServer(t, t.TempDir()+"/gone")
	resp, _ := get(t, ts.URL+"/diagram.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeMetrics(t *testing.T) {
	ts := newTestServer(t, writeProject(t))
	resp, _ := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080", serverURL(":8080"))
	assert.Equal(t, "http://0.0.0.0:9000", serverURL("0.0.0.0:9000"))
}
