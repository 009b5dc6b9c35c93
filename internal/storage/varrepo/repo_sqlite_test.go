package varrepo_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/internal/storage/varrepo"
)

func newRepo(t *testing.T) varrepo.Repo {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	repo, err := varrepo.Sqlite(varrepo.RepoSqliteConfig{Connection: conn})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestRepoSqlite(t *testing.T) {
	ctx := context.Background()

	t.Run("set get and overwrite", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Set(ctx, "company", "BBR"))
		require.NoError(t, repo.Set(ctx, "company", "BBRHub"))

		got, err := repo.Get(ctx, "company")
		require.NoError(t, err)
		assert.Equal(t, "BBRHub", got)
	})

	t.Run("all returns map", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Set(ctx, "company", "BBRHub"))
		require.NoError(t, repo.Set(ctx, "year", "2024"))

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"company": "BBRHub", "year": "2024"}, all)
	})

	t.Run("missing key", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		repo := newRepo(t)

		assert.ErrorIs(t, repo.Set(ctx, "  ", "v"), storage.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)

		require.NoError(t, repo.Set(ctx, "company", "BBRHub"))
		require.NoError(t, repo.Delete(ctx, "company"))

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
