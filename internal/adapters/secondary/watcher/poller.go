package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// PollingWatcher watches gallery files by polling their size, mtime and
// sha256. Changes are debounced: an event is sent once a file has been
// quiet for the debounce period, carrying the most recent change type.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	clock    ports.TimeProvider
	logger   ports.Logger

	mu      sync.Mutex
	files   map[string]FileInfo
	stopped bool

	events   chan ports.FileChangeEvent
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// FileInfo stores what was last seen of a file
type FileInfo struct {
	Exists   bool
	Size     int64
	ModTime  time.Time
	Checksum string
}

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(interval, debounce time.Duration, logger ports.Logger) *PollingWatcher {
	return NewPollingWatcherWithClock(interval, debounce, logger, ports.NewRealTimeProvider())
}

// NewPollingWatcherWithClock creates a watcher driven by clock
func NewPollingWatcherWithClock(interval, debounce time.Duration, logger ports.Logger, clock ports.TimeProvider) *PollingWatcher {
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		clock:    clock,
		logger:   logger,
		files:    make(map[string]FileInfo),
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching a file. The file must exist when watching starts.
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := w.scan(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	if !info.Exists {
		return nil, fmt.Errorf("initial scan: %s does not exist", absPath)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, errors.New("watcher stopped")
	}
	w.files[absPath] = info

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop stops every poll loop and closes the event channel
func (w *PollingWatcher) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		close(w.stopCh)
		w.wg.Wait()
		close(w.events)
	})
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	var pending *ports.FileChangeEvent
	var lastChange time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C():
		}

		change, changed, err := w.check(path)
		if err != nil {
			w.logger.Warnw("watch error", "path", path, "error", err)
			continue
		}

		now := w.clock.Now()
		if changed {
			pending = &ports.FileChangeEvent{Path: path, Type: change, Timestamp: now}
			lastChange = now
		}

		if pending == nil || now.Sub(lastChange) < w.debounce {
			continue
		}

		select {
		case w.events <- *pending:
			w.logger.Debugw("file change", "path", path, "type", pending.Type.String())
			pending = nil
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// check compares the file against what was last seen and records the new state
func (w *PollingWatcher) check(path string) (ports.ChangeType, bool, error) {
	w.mu.Lock()
	old := w.files[path]
	w.mu.Unlock()

	stat, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return 0, false, fmt.Errorf("stat file: %w", err)
	}

	if err != nil {
		if !old.Exists {
			return 0, false, nil
		}
		w.store(path, FileInfo{})
		return ports.Deleted, true, nil
	}

	if old.Exists && old.Size == stat.Size() && old.ModTime.Equal(stat.ModTime()) {
		return 0, false, nil
	}

	info, err := w.scan(path)
	if err != nil {
		return 0, false, err
	}
	w.store(path, info)

	switch {
	case !old.Exists:
		return ports.Created, true, nil
	case old.Checksum != info.Checksum:
		return ports.Modified, true, nil
	default:
		// touched but not changed
		return 0, false, nil
	}
}

func (w *PollingWatcher) store(path string, info FileInfo) {
	w.mu.Lock()
	w.files[path] = info
	w.mu.Unlock()
}

func (w *PollingWatcher) scan(path string) (FileInfo, error) {
	stat, err := os.Stat(path)
	if os.IsNotExist(err) {
		return FileInfo{}, nil
	}
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat file: %w", err)
	}

	checksum, err := checksumFile(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("calculate checksum: %w", err)
	}

	return FileInfo{
		Exists:   true,
		Size:     stat.Size(),
		ModTime:  stat.ModTime(),
		Checksum: checksum,
	}, nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - the gallery file given on the command line
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

var _ ports.FileWatcher = (*PollingWatcher)(nil)
