package syslogrepo_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bbrhub/mailblast/internal/storage/syslogrepo"
)

func newRepo(t *testing.T) syslogrepo.Repo {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	repo, err := syslogrepo.Sqlite(syslogrepo.RepoSqliteConfig{Connection: conn})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestCorePersistsEntries(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	log := zap.New(syslogrepo.NewCore(repo, zapcore.InfoLevel))
	log.Info("batch started", zap.String("batch_id", "BATCH_1"))
	log.Debug("noise below threshold")
	log.Warn("recipient rejected")
	require.NoError(t, log.Sync())

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "recipient rejected", entries[0].Message)
	assert.Equal(t, "warn", entries[0].Level)
	assert.Equal(t, "batch started", entries[1].Message)
	assert.Contains(t, entries[1].Fields, "BATCH_1")
}

func TestPruneKeepsNewest(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	log := zap.New(syslogrepo.NewCore(repo, zapcore.InfoLevel))
	for _, msg := range []string{"one", "two", "three", "four"} {
		log.Info(msg)
	}

	require.NoError(t, repo.Prune(ctx, 2))

	entries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "four", entries[0].Message)
	assert.Equal(t, "three", entries[1].Message)
}
