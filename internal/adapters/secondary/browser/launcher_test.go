package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testLauncher(t *testing.T, preferred string, onPath ...string) *Launcher {
	l := NewLauncher(preferred, zaptest.NewLogger(t).Sugar())
	l.browsers = platformBrowsers("linux")
	l.lookPath = func(file string) (string, error) {
		for _, p := range onPath {
			if p == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("not found")
	}
	return l
}

func TestLauncherLaunch(t *testing.T) {
	t.Run("with noOpen flag", func(t *testing.T) {
		l := testLauncher(t, DefaultBrowser)
		assert.NoError(t, l.Launch("http://localhost:3000", true))
	})

	t.Run("without browsers", func(t *testing.T) {
		l := testLauncher(t, DefaultBrowser)
		l.browsers = nil
		err := l.Launch("http://localhost:3000", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "browser selection")
	})
}

func TestLauncherDetect(t *testing.T) {
	tests := []struct {
		name      string
		preferred string
		onPath    []string
		want      string
		wantErr   string
	}{
		{name: "default picks first on path", preferred: DefaultBrowser, onPath: []string{"firefox", "xdg-open"}, want: "Default"},
		{name: "empty acts as default", preferred: "", onPath: []string{"firefox"}, want: "Firefox"},
		{name: "preferred is case insensitive", preferred: "chromium", onPath: []string{"xdg-open", "chromium"}, want: "Chromium"},
		{name: "preferred not installed", preferred: "chrome", onPath: []string{"xdg-open"}, wantErr: "no supported browsers found on this system"},
		{name: "unknown preferred", preferred: "lynx", onPath: []string{"xdg-open"}, wantErr: `unknown browser "lynx"`},
		{name: "nothing on path", preferred: DefaultBrowser, wantErr: "no supported browsers found on this system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := testLauncher(t, tt.preferred, tt.onPath...).Detect()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestPlatformBrowsers(t *testing.T) {
	const url = "http://localhost:3000"

	for _, goos := range []string{"darwin", "linux", "windows"} {
		t.Run(goos, func(t *testing.T) {
			browsers := platformBrowsers(goos)
			require.NotEmpty(t, browsers)
			assert.Equal(t, "Default", browsers[0].Name)
			for _, b := range browsers {
				assert.Contains(t, b.Args(url), url, b.Name)
			}
		})
	}

	assert.Empty(t, platformBrowsers("plan9"))
}
