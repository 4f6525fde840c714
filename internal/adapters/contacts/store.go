// Package contacts serves contact records from a JSON file on disk.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// reloadDebounce is how long the file must stay quiet before a change is
// reloaded. Editors and deploy tools often write a file in several steps.
const reloadDebounce = 100 * time.Millisecond

// FileStore implements ports.ContactDirectory over a JSON array file.
//
// Without Watch every lookup reads the file. With Watch the parsed list is
// kept in memory and reloaded once the file settles after a change. When
// the watch ends, lookups go back to reading the file.
type FileStore struct {
	path     string
	logger   *slog.Logger
	debounce time.Duration

	mu       sync.RWMutex
	cached   []domain.Contact
	watching bool

	// stopCh is non-nil while a watch goroutine owns the cache.
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewFileStore returns a store reading path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileStore{
		path:     filepath.Clean(path),
		logger:   logger.With(slog.String("component", "contacts.FileStore")),
		debounce: reloadDebounce,
	}
}

// FindContact implements ports.ContactDirectory.
func (s *FileStore) FindContact(_ context.Context, id string) (domain.Contact, error) {
	for _, c := range s.contacts() {
		if c.ID() == id {
			return c, nil
		}
	}

	return nil, domain.NewNotFoundError("contact", id)
}

func (s *FileStore) contacts() []domain.Contact {
	s.mu.RLock()
	if s.watching {
		defer s.mu.RUnlock()
		return s.cached
	}
	s.mu.RUnlock()

	return s.read()
}

// read loads the file. Missing or malformed files read as an empty list.
func (s *FileStore) read() []domain.Contact {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("reading contacts failed", slog.String("error", err.Error()))
		}

		return nil
	}

	list, err := domain.ParseContacts(data)
	if err != nil {
		s.logger.Warn("parsing contacts failed", slog.String("error", err.Error()))
		return nil
	}

	return list
}

func (s *FileStore) reload() {
	list := s.read()

	s.mu.Lock()
	s.cached = list
	s.mu.Unlock()

	s.logger.Debug("contacts reloaded", slog.Int("count", len(list)))
}

// Watch loads the file and starts reloading it on change until ctx is done
// or Close is called. The parent directory is watched so that editors that
// replace the file by rename are picked up.
func (s *FileStore) Watch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating contacts watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	stopCh, doneCh := make(chan struct{}), make(chan struct{})

	s.stopCh, s.doneCh = stopCh, doneCh
	s.cached = s.read()
	s.watching = true

	s.logger.Debug("contacts reloaded", slog.Int("count", len(s.cached)))

	go s.run(ctx, watcher, stopCh, doneCh)

	return nil
}

// Close stops the watcher, if any, and waits for it to exit. Lookups fall
// back to reading the file.
func (s *FileStore) Close() error {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.unwatch(stopCh)
	s.mu.Unlock()

	if stopCh == nil {
		return nil
	}

	close(stopCh)
	<-doneCh

	return nil
}

// unwatch drops the cache owned by the watch behind stopCh. A watch that
// has already been replaced or closed leaves the store alone. Callers hold
// s.mu.
func (s *FileStore) unwatch(stopCh chan struct{}) {
	if stopCh == nil || s.stopCh != stopCh {
		return
	}

	s.stopCh, s.doneCh = nil, nil
	s.watching = false
	s.cached = nil
}

func (s *FileStore) run(ctx context.Context, watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	defer func() {
		s.mu.Lock()
		s.unwatch(stopCh)
		s.mu.Unlock()

		if err := watcher.Close(); err != nil {
			s.logger.Warn("closing contacts watcher failed", slog.String("error", err.Error()))
		}
	}()

	var (
		timer   *time.Timer
		settled <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-settled:
			settled = nil
			s.reload()
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != s.path {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}

			settled = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			s.logger.Warn("contacts watcher error", slog.String("error", err.Error()))
		}
	}
}

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string {
	return "contacts"
}

// Check implements ports.HealthChecker. A missing file is healthy, an
// unreadable one is not.
func (s *FileStore) Check(_ context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("contacts file: %w", err)
}
