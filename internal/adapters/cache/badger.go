// Package cache implements ports.Cache on an embedded badger store.
// Boat wizard drafts live here between requests.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// DefaultGCInterval is how often the value log is compacted for on-disk stores.
const DefaultGCInterval = 10 * time.Minute

// Config configures a Badger cache.
type Config struct {
	// InMemory keeps everything in RAM. Drafts are lost on restart.
	InMemory bool

	// Dir is the data directory for on-disk stores.
	Dir string

	// GCInterval defaults to DefaultGCInterval. Ignored in memory.
	GCInterval time.Duration

	Logger *slog.Logger
}

// Badger is a ports.Cache with per-entry TTLs.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New opens the store and, on disk, starts value log GC.
// Close must be called to release it.
func New(cfg Config) (*Badger, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "cache.Badger"))

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}

	opts = opts.WithLogger(badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	c := &Badger{
		db:     db,
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	if cfg.InMemory {
		close(c.done)
		return c, nil
	}

	interval := cfg.GCInterval
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	go c.runGC(interval)

	return c, nil
}

// Get implements ports.Cache.
func (c *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)

		return err
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return nil, domain.NewNotFoundError("cache entry", key)
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, nil
}

// Set implements ports.Cache.
func (c *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := badger.NewEntry([]byte(key), value)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}

	if err := c.db.Update(func(txn *badger.Txn) error { return txn.SetEntry(entry) }); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

// Delete implements ports.Cache.
func (c *Badger) Delete(_ context.Context, key string) error {
	if err := c.db.Update(func(txn *badger.Txn) error { return txn.Delete([]byte(key)) }); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (c *Badger) Name() string {
	return "wizard-sessions"
}

// Check implements ports.HealthChecker.
func (c *Badger) Check(_ context.Context) error {
	if c.db.IsClosed() {
		return errors.New("session store is closed")
	}

	return c.db.View(func(*badger.Txn) error { return nil })
}

// Close stops GC and closes the store. It is safe to call more than once.
func (c *Badger) Close() error {
	var err error

	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done

		err = c.db.Close()
	})

	return err
}

func (c *Badger) runGC(interval time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			for {
				// Repeat while a rewrite happened; ErrNoRewrite ends the round.
				if err := c.db.RunValueLogGC(0.5); err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						c.logger.Warn("value log gc failed", slog.String("error", err.Error()))
					}

					break
				}
			}
		}
	}
}

// badgerLogger routes badger's internal logging through slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(trimf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(trimf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(trimf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(trimf(format, args...))
}

func trimf(format string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
