package templaterepo_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/internal/storage/templaterepo"
)

func newRepo(t *testing.T) templaterepo.Repo {
	t.Helper()

	conn, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	repo, err := templaterepo.Sqlite(templaterepo.RepoSqliteConfig{Connection: conn})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestRepoSqlite(t *testing.T) {
	ctx := context.Background()

	tpl := templaterepo.Template{
		Name:    "welcome",
		Subject: "Hi {name}",
		Body:    "<p>Dear {name}, welcome to {company}.</p>",
	}

	t.Run("save and get", func(t *testing.T) {
		repo := newRepo(t)

		saved, err := repo.Save(ctx, tpl)
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.False(t, saved.UpdatedAt.IsZero())

		got, err := repo.GetByName(ctx, "welcome")
		require.NoError(t, err)
		assert.Equal(t, tpl.Subject, got.Subject)
	})

	t.Run("save twice updates body", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Save(ctx, tpl)
		require.NoError(t, err)

		updated := tpl
		updated.Body = "<p>changed</p>"
		_, err = repo.Save(ctx, updated)
		require.NoError(t, err)

		tpls, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, tpls, 1)
		assert.Equal(t, "<p>changed</p>", tpls[0].Body)
	})

	t.Run("missing template", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByName(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Save(ctx, templaterepo.Template{Name: "empty"})
		assert.ErrorIs(t, err, storage.ErrValidation)
	})

	t.Run("definition for renderer", func(t *testing.T) {
		def := tpl.Definition()
		assert.Equal(t, "welcome", def.Name)
		assert.Equal(t, tpl.Body, def.Body)
	})
}
