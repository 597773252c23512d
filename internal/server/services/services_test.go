package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/carcare/internal/logging"
	"github.com/dmitrijs2005/carcare/internal/server/config"
	"github.com/dmitrijs2005/carcare/internal/server/guard"
	"github.com/dmitrijs2005/carcare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/carcare/internal/server/writequeue"

	_ "modernc.org/sqlite"
)

type fixture struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	guard *guard.Guard
	queue *writequeue.Queue
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repos := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, repos.RunMigrations(context.Background(), db))

	cfg := &config.Config{}
	cfg.LoadDefaults()

	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	q := writequeue.New(l, cfg.QueueErrorLogSize)
	q.Start(context.Background())
	t.Cleanup(q.Drain)

	return &fixture{
		db:    db,
		repos: repos,
		guard: guard.New(db, repos),
		queue: q,
		cfg:   cfg,
	}
}

// waitIdle blocks until every accepted job has run, so a test can read
// back what it just wrote.
func (f *fixture) waitIdle(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for f.queue.Stats().Pending > 0 {
		if time.Now().After(deadline) {
			t.Fatal("write queue did not drain in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *fixture) registerUser(t *testing.T, email string) int64 {
	t.Helper()
	svc := NewUserService(f.db, f.repos, f.cfg)
	u, _, err := svc.Register(context.Background(), email, "pa$$word")
	require.NoError(t, err)
	return u.ID
}
