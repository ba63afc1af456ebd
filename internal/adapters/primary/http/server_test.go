package http

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fredcamaral/stackslider/internal/adapters/secondary/logging"
	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
	"github.com/fredcamaral/stackslider/internal/test/builders"
)

// stubGallery is a GalleryService holding a swappable gallery
type stubGallery struct {
	mu     sync.RWMutex
	g      *entities.Gallery
	assets string
}

func (s *stubGallery) set(g *entities.Gallery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = g
}

func (s *stubGallery) Load(ctx context.Context, path string) (*entities.Gallery, error) {
	return s.Current(), nil
}

func (s *stubGallery) LoadBytes(ctx context.Context, content []byte) (*entities.Gallery, error) {
	return s.Current(), nil
}

func (s *stubGallery) Current() *entities.Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.g
}

func (s *stubGallery) Reload(ctx context.Context) (*entities.Gallery, error) {
	return s.Current(), nil
}

func (s *stubGallery) Assets() string {
	return s.assets
}

// MockRenderer is a mock for Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderPage(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState) ([]byte, error) {
	args := m.Called(ctx, gallery, state)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func testGallery(ids ...string) *entities.Gallery {
	b := builders.NewGalleryBuilder().WithTitle("Myths <i>old</i>").WithClass("dark")
	for _, id := range ids {
		b.WithSlide(builders.NewSlideBuilder().
			WithID(id).
			WithSrc("img/"+id+".png").
			WithCaption("**"+id+"**", "<p><strong>"+id+"</strong></p><script>alert(1)</script>").
			Build())
	}
	return b.Build()
}

func testConfig() *entities.Config {
	return builders.NewConfigBuilder().
		WithWatcher(100, 0).
		WithFastAnimation().
		Build()
}

func testLogger(t *testing.T) HTTPLogger {
	return logging.NewFromZap(zaptest.NewLogger(t), true)
}

func newTestServer(t *testing.T, gallery *stubGallery, renderer ports.Renderer) *Server {
	if renderer == nil {
		renderer = new(MockRenderer)
	}
	return NewServer(gallery, renderer, testConfig(), testLogger(t))
}

func getJSON(t *testing.T, url string, v interface{}) *http.Response {
	resp, err := http.Get(url) // #nosec G107 - test server URL
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp
}

func TestServer_Routes(t *testing.T) {
	gallery := &stubGallery{g: testGallery("slide-1", "slide-2", "slide-3")}
	renderer := new(MockRenderer)
	renderer.On("RenderPage", mock.Anything, gallery.g, mock.MatchedBy(func(s entities.CarouselState) bool {
		return s.Phase == entities.PhaseRest && len(s.Views) == 3 && s.Views[0].Interactive
	})).Return([]byte("<html>stack</html>"), nil)

	ts := httptest.NewServer(newTestServer(t, gallery, renderer).Handler())
	defer ts.Close()

	t.Run("page", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<html>stack</html>", string(body))
		assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
		assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "connect-src 'self' ws: wss:")
		renderer.AssertExpectations(t)
	})

	t.Run("gallery json sanitizes captions", func(t *testing.T) {
		var got GalleryResponse
		resp := getJSON(t, ts.URL+"/api/gallery", &got)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Myths old", got.Title)
		assert.Equal(t, "dark", got.Class)
		require.Len(t, got.Slides, 3)
		assert.Equal(t, "slide-2", got.Slides[1].ID)
		assert.Equal(t, "/assets/img/slide-2.png", got.Slides[1].URL)
		assert.Equal(t, "<p><strong>slide-2</strong></p>", got.Slides[1].Caption)
	})

	t.Run("config", func(t *testing.T) {
		var got ConfigResponse
		getJSON(t, ts.URL+"/api/config", &got)
		assert.Equal(t, Version, got.Version)
		assert.Equal(t, "/ws", got.WebSocketURL)
		assert.True(t, got.LiveReload)
		assert.Equal(t, 80.0, got.Carousel.SlideTrigger)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/config", "application/json", nil)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		var got ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Method not allowed", got.Message)
	})

	t.Run("unknown route", func(t *testing.T) {
		var got ErrorResponse
		resp := getJSON(t, ts.URL+"/nope", &got)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Resource not found", got.Message)
	})
}

func TestServer_NoGallery(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t, &stubGallery{}, nil).Handler())
	defer ts.Close()

	for _, path := range []string{"/", "/api/gallery", "/ws"} {
		var got ErrorResponse
		resp := getJSON(t, ts.URL+path, &got)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Equal(t, "No gallery loaded", got.Message, path)
	}
}

func TestServer_Assets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "a.svg"), []byte("<svg/>"), 0600))

	s := newTestServer(t, &stubGallery{g: testGallery("a", "b"), assets: dir}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	t.Run("serves a gallery file", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/assets/img/a.svg")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<svg/>", string(body))
		assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))
	})

	t.Run("missing file and directories are not found", func(t *testing.T) {
		for _, path := range []string{"/assets/img/missing.svg", "/assets/img/", "/assets/img"} {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		}
	})

	t.Run("traversal is forbidden", func(t *testing.T) {
		for _, path := range []string{"/../secret.txt", "/img/../../secret.txt", "/img\\..\\a.svg"} {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = path
			s.secureFileServer().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusForbidden, rec.Code, path)
		}
	})

	t.Run("embedded assets take precedence", func(t *testing.T) {
		s.SetAssets(fstest.MapFS{"persephone.svg": {Data: []byte("<svg id=\"p\"/>")}})
		defer s.SetAssets(nil)

		resp, err := http.Get(ts.URL + "/assets/persephone.svg")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, `<svg id="p"/>`, string(body))
	})
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, &stubGallery{g: testGallery("a", "b")}, nil)
	ctx := context.Background()

	assert.EqualError(t, s.NotifyClients(ports.UpdateEvent{Type: ports.EventTypeReload}), "server not running")
	assert.EqualError(t, s.Stop(ctx), "server not running")

	require.NoError(t, s.Start(ctx, 0, "127.0.0.1"))
	assert.True(t, s.IsRunning())
	assert.NotEmpty(t, s.Addr())
	assert.EqualError(t, s.Start(ctx, 0, "127.0.0.1"), "server already running")

	var got ConfigResponse
	resp := getJSON(t, "http://"+s.Addr()+"/api/config", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, s.NotifyClients(ports.UpdateEvent{Type: ports.EventTypeReload}))
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
}

func TestServer_StopWithRequestInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	renderer := new(MockRenderer)
	renderer.On("RenderPage", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]byte("<html></html>"), nil).Once()

	s := newTestServer(t, &stubGallery{g: testGallery("a", "b")}, renderer)
	require.NoError(t, s.Start(context.Background(), 0, "127.0.0.1"))

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + s.Addr() + "/") // #nosec G107 - test server URL
		if err != nil {
			status <- 0
			return
		}
		_ = resp.Body.Close()
		status <- resp.StatusCode
	}()
	<-entered

	stopped := make(chan error, 1)
	go func() { stopped <- s.Stop(context.Background()) }()

	// the handler reads server state after rendering, while Stop is draining
	require.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)
	close(release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Stop waited for the shutdown timeout")
	}
	assert.Equal(t, http.StatusOK, <-status)
	renderer.AssertExpectations(t)
}

func TestServer_StartPortInUse(t *testing.T) {
	first := newTestServer(t, &stubGallery{}, nil)
	require.NoError(t, first.Start(context.Background(), 0, "127.0.0.1"))
	defer func() { _ = first.Stop(context.Background()) }()

	_, port, err := splitHostPort(first.Addr())
	require.NoError(t, err)

	second := newTestServer(t, &stubGallery{}, nil)
	err = second.Start(context.Background(), port, "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
	assert.False(t, second.IsRunning())
}

func splitHostPort(addr string) (string, int, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(port)
	return host, n, err
}
