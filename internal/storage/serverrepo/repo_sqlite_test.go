package serverrepo_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/internal/storage/serverrepo"
	"github.com/bbrhub/mailblast/pkg/mailclient"
)

func newRepo(t *testing.T) serverrepo.Repo {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	repo, err := serverrepo.Sqlite(serverrepo.RepoSqliteConfig{Connection: conn})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Seed(ctx))
	return repo
}

func TestRepoSqlite(t *testing.T) {
	ctx := context.Background()

	t.Run("seed installs presets and is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Seed(ctx))

		profiles, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, profiles, 8)

		gmail, err := repo.GetByName(ctx, "gmail")
		require.NoError(t, err)
		assert.Equal(t, "smtp.gmail.com", gmail.Host)
		assert.Equal(t, 587, gmail.Port)
		assert.True(t, gmail.UseTLS)
		assert.False(t, gmail.UseSSL)
	})

	t.Run("detect by sender domain", func(t *testing.T) {
		repo := newRepo(t)

		qq, err := repo.DetectByEmail(ctx, "someone@QQ.com")
		require.NoError(t, err)
		assert.Equal(t, "smtp.qq.com", qq.Host)
		assert.True(t, qq.UseSSL)

		_, err = repo.DetectByEmail(ctx, "someone@unknown-corp.example")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = repo.DetectByEmail(ctx, "not-an-address")
		assert.ErrorIs(t, err, storage.ErrSenderWrongEmail)
	})

	t.Run("save custom profile and update in place", func(t *testing.T) {
		repo := newRepo(t)

		custom := mailclient.ServerProfile{Name: "Corp", Host: "mail.corp.example", Port: 587, UseTLS: true}
		saved, err := repo.Save(ctx, custom)
		require.NoError(t, err)
		assert.Equal(t, "corp", saved.Name)
		assert.False(t, saved.BuiltIn)

		custom.Port = 2525
		_, err = repo.Save(ctx, custom)
		require.NoError(t, err)

		got, err := repo.GetByName(ctx, "corp")
		require.NoError(t, err)
		assert.Equal(t, 2525, got.Port)
	})

	t.Run("save rejects ssl and tls together", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Save(ctx, mailclient.ServerProfile{Name: "bad", Host: "h", Port: 465, UseSSL: true, UseTLS: true})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("delete guards built-in profiles", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Delete(ctx, "gmail")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = repo.Save(ctx, mailclient.ServerProfile{Name: "corp", Host: "mail.corp.example", Port: 587, UseTLS: true})
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, "corp"))

		_, err = repo.GetByName(ctx, "corp")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
