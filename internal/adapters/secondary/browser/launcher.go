package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// DefaultBrowser selects the first available browser for the platform
const DefaultBrowser = "default"

// Launcher opens the carousel page in a local browser
type Launcher struct {
	browsers  []Browser
	preferred string
	lookPath  func(file string) (string, error)
	logger    ports.Logger
}

// Browser is a way of opening a URL on this platform
type Browser struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// NewLauncher creates a launcher. preferred names a browser from the
// platform list ("firefox", "chrome"); "" or "default" picks the first one
// found on PATH.
func NewLauncher(preferred string, logger ports.Logger) *Launcher {
	return &Launcher{
		browsers:  platformBrowsers(runtime.GOOS),
		preferred: preferred,
		lookPath:  exec.LookPath,
		logger:    logger,
	}
}

// Launch opens url unless noOpen is set. It does not wait for the browser.
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		l.logger.Debugw("browser launch skipped", "url", url)
		return nil
	}

	browser, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	cmd := exec.Command(browser.Command, browser.Args(url)...) // #nosec G204 - command comes from the platform list
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", browser.Name, err)
	}
	l.logger.Infow("opened browser", "browser", browser.Name, "url", url)

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Detect reports which browser Launch would use
func (l *Launcher) Detect() (string, error) {
	browser, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return browser.Name, nil
}

func (l *Launcher) selectBrowser() (*Browser, error) {
	if len(l.browsers) == 0 {
		return nil, errors.New("no browsers available")
	}

	candidates := l.browsers
	if l.preferred != "" && !strings.EqualFold(l.preferred, DefaultBrowser) {
		candidates = nil
		for _, b := range l.browsers {
			if strings.EqualFold(b.Name, l.preferred) {
				candidates = append(candidates, b)
			}
		}
		if len(candidates) == 0 {
			return nil, fmt.Errorf("unknown browser %q", l.preferred)
		}
	}

	for _, candidate := range candidates {
		if _, err := l.lookPath(candidate.Command); err == nil {
			return &candidate, nil
		}
	}

	return nil, errors.New("no supported browsers found on this system")
}

func urlOnly(url string) []string {
	return []string{url}
}

func platformBrowsers(goos string) []Browser {
	switch goos {
	case "darwin":
		return []Browser{
			{Name: "Default", Command: "open", Args: urlOnly},
			{Name: "Chrome", Command: "open", Args: func(url string) []string { return []string{"-a", "Google Chrome", url} }},
			{Name: "Safari", Command: "open", Args: func(url string) []string { return []string{"-a", "Safari", url} }},
			{Name: "Firefox", Command: "open", Args: func(url string) []string { return []string{"-a", "Firefox", url} }},
		}
	case "linux", "freebsd", "openbsd":
		return []Browser{
			{Name: "Default", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Chromium", Command: "chromium", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		return []Browser{
			{Name: "Default", Command: "rundll32", Args: func(url string) []string { return []string{"url.dll,FileProtocolHandler", url} }},
			{Name: "Chrome", Command: "cmd", Args: func(url string) []string { return []string{"/c", "start", "chrome", url} }},
			{Name: "Edge", Command: "cmd", Args: func(url string) []string { return []string{"/c", "start", "msedge", url} }},
		}
	default:
		return nil
	}
}

var _ ports.BrowserLauncher = (*Launcher)(nil)
