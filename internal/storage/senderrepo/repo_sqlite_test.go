package senderrepo_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/internal/storage/senderrepo"
	"github.com/bbrhub/mailblast/pkg/secrets"
)

func newRepo(t *testing.T) (senderrepo.Repo, *sqlx.DB) {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	box, err := secrets.NewBox([]byte("passphrase"), []byte("salt"))
	require.NoError(t, err)

	repo, err := senderrepo.Sqlite(senderrepo.RepoSqliteConfig{Connection: conn, Secrets: box})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo, conn
}

func TestRepoSqlite(t *testing.T) {
	ctx := context.Background()

	sender := senderrepo.Sender{
		Email:       "Alice@Example.COM",
		DisplayName: "Alice",
		Secret:      "authcode123",
		ServerName:  "gmail",
	}

	t.Run("save normalizes email and encrypts secret at rest", func(t *testing.T) {
		repo, conn := newRepo(t)

		saved, err := repo.Save(ctx, sender)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", saved.Email)
		assert.Equal(t, "authcode123", saved.Secret)
		assert.NotZero(t, saved.ID)
		assert.False(t, saved.CreatedAt.IsZero())

		var stored string
		require.NoError(t, conn.GetContext(ctx, &stored, `SELECT secret FROM senders WHERE email = ?;`, "alice@example.com"))
		assert.NotEqual(t, "authcode123", stored)
	})

	t.Run("get decrypts", func(t *testing.T) {
		repo, _ := newRepo(t)

		_, err := repo.Save(ctx, sender)
		require.NoError(t, err)

		got, err := repo.GetByEmail(ctx, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, "authcode123", got.Secret)
		assert.Equal(t, "gmail", got.ServerName)
	})

	t.Run("save twice updates in place", func(t *testing.T) {
		repo, _ := newRepo(t)

		_, err := repo.Save(ctx, sender)
		require.NoError(t, err)

		updated := sender
		updated.Secret = "rotated"
		_, err = repo.Save(ctx, updated)
		require.NoError(t, err)

		senders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, senders, 1)
		assert.Equal(t, "rotated", senders[0].Secret)
	})

	t.Run("get unknown sender", func(t *testing.T) {
		repo, _ := newRepo(t)

		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, _ := newRepo(t)

		_, err := repo.Save(ctx, sender)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, "alice@example.com"))

		senders, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, senders)
	})

	t.Run("validation", func(t *testing.T) {
		repo, _ := newRepo(t)

		bad := sender
		bad.Email = "not-an-email"
		_, err := repo.Save(ctx, bad)
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("credential shape", func(t *testing.T) {
		cred := sender.Credential()
		assert.Equal(t, sender.Email, cred.Address)
		assert.Equal(t, "gmail", cred.ServerName)
	})
}
