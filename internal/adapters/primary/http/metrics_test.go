package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stackslider/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

func TestServer_HealthWithoutMetrics(t *testing.T) {
	s := newTestServer(t, &stubGallery{g: testGallery("a", "b")}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var got map[string]interface{}
	resp := getJSON(t, ts.URL+"/api/health", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"healthy": true}, got)
}

func TestServer_Metrics(t *testing.T) {
	pages, err := renderer.NewTemplateRenderer(entities.DefaultCarouselConfig())
	require.NoError(t, err)

	monitor := monitoring.NewMonitor(ports.NewRealTimeProvider(), time.Minute)
	monitor.Start(context.Background())
	defer monitor.Stop()

	gallery := &stubGallery{g: testGallery("a", "b", "c")}
	s := newTestServer(t, gallery, pages)
	s.SetMetrics(monitor)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	f := &sessionFixture{server: s, gallery: gallery, ts: ts}

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ws, _ := f.connect(t)
	send(t, ws, MessageClick, 0)
	readUntil(t, ws, restWithOrder(t, "b", "c", "a"))
	send(t, ws, "bogus", 0)

	stats := monitor.Stats()
	assert.Equal(t, int64(1), stats.PageRenders)
	assert.Equal(t, int64(1), stats.SessionsOpened)
	assert.Equal(t, int64(1), stats.ActiveSessions)
	assert.Equal(t, int64(1), stats.Gestures[MessageClick])
	assert.NotContains(t, stats.Gestures, "bogus")

	var health map[string]interface{}
	getJSON(t, ts.URL+"/api/health", &health)
	assert.Equal(t, true, health["healthy"])
	activity, ok := health["activity"].(map[string]interface{})
	require.True(t, ok)
	assert.GreaterOrEqual(t, activity["http_requests"], float64(2))

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool {
		return monitor.Stats().ActiveSessions == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_NotifyReloadCountsReloads(t *testing.T) {
	monitor := monitoring.NewMonitor(ports.NewRealTimeProvider(), time.Minute)
	s := newTestServer(t, &stubGallery{g: testGallery("a", "b")}, nil)
	s.SetMetrics(monitor)

	require.NoError(t, s.Start(context.Background(), 0, "127.0.0.1"))
	defer func() { _ = s.Stop(context.Background()) }()

	require.NoError(t, s.NotifyClients(ports.UpdateEvent{Type: ports.EventTypeReload}))
	require.NoError(t, s.NotifyClients(ports.UpdateEvent{Type: ports.EventTypeError}))
	assert.Equal(t, int64(1), monitor.Stats().Reloads)
}
