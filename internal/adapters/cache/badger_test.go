package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

var _ ports.Cache = (*Badger)(nil)

var _ ports.HealthChecker = (*Badger)(nil)

func TestMain(m *testing.M) {
	// badger pulls in opencensus and glog, both of which start background
	// goroutines at package init.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"),
	)
}

func newCache(t *testing.T, cfg Config) *Badger {
	t.Helper()

	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestBadger_RoundTrip(t *testing.T) {
	for name, cfg := range map[string]Config{
		"memory": {InMemory: true},
		"disk":   {Dir: t.TempDir(), GCInterval: time.Hour},
	} {
		t.Run(name, func(t *testing.T) {
			c := newCache(t, cfg)
			ctx := context.Background()

			_, err := c.Get(ctx, "wizard:boat:missing")
			assert.True(t, domain.IsNotFound(err))

			require.NoError(t, c.Set(ctx, "wizard:boat:a", []byte(`{"id":"a"}`), time.Hour))

			got, err := c.Get(ctx, "wizard:boat:a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"a"}`, string(got))

			require.NoError(t, c.Set(ctx, "wizard:boat:a", []byte(`{"id":"b"}`), 0))

			got, err = c.Get(ctx, "wizard:boat:a")
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"b"}`, string(got))

			require.NoError(t, c.Delete(ctx, "wizard:boat:a"))

			_, err = c.Get(ctx, "wizard:boat:a")
			assert.True(t, domain.IsNotFound(err))
		})
	}
}

func TestBadger_Expiry(t *testing.T) {
	c := newCache(t, Config{InMemory: true})
	ctx := context.Background()

	// Badger TTLs have one second resolution.
	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Second))

	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "short")
		return domain.IsNotFound(err)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestBadger_DeleteMissingKey(t *testing.T) {
	c := newCache(t, Config{InMemory: true})

	assert.NoError(t, c.Delete(context.Background(), "never-set"))
}

func TestBadger_Health(t *testing.T) {
	c := newCache(t, Config{InMemory: true})

	assert.Equal(t, "wizard-sessions", c.Name())
	require.NoError(t, c.Check(context.Background()))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Error(t, c.Check(context.Background()))
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(Config{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, first.Close())

	second := newCache(t, Config{Dir: dir})

	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
