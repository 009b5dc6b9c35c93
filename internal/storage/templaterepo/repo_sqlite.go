package templaterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

type RepoSqliteConfig struct {
	Connection sqlx.ExtContext `validate:"required"`
}

type RepoSqlite struct {
	Config RepoSqliteConfig
}

var _ Repo = (*RepoSqlite)(nil)

// Sqlite return repo interface which implements using SQLite
func Sqlite(conf RepoSqliteConfig) (service *RepoSqlite, err error) {
	err = validator.New().Struct(conf)
	if err != nil {
		return nil, err
	}

	service = &RepoSqlite{
		Config: conf,
	}
	return
}

func (p *RepoSqlite) Migrate(ctx context.Context) (err error) {
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateTemplates)
	return
}

func (p *RepoSqlite) Save(ctx context.Context, tpl Template) (saved Template, err error) {
	err = validator.New().Struct(tpl)
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	tpl.Name = strings.TrimSpace(tpl.Name)

	now := time.Now().UTC()
	createdAt := tpl.CreatedAt
	if createdAt.IsZero() || createdAt.Unix() <= 0 {
		createdAt = now
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlSaveTemplate,
		tpl.Name, tpl.Subject, tpl.Body, createdAt, now,
	)
	return
}

func (p *RepoSqlite) GetByName(ctx context.Context, name string) (tpl Template, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return tpl, fmt.Errorf("%w: empty template name", storage.ErrValidation)
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &tpl, sqlGetTemplateByName, name)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: template '%s'", storage.ErrNotFound, name)
	}
	return
}

func (p *RepoSqlite) List(ctx context.Context) (tpls []Template, err error) {
	err = sqlx.SelectContext(ctx, p.Config.Connection, &tpls, sqlSelectTemplates)
	return
}

func (p *RepoSqlite) Delete(ctx context.Context, name string) (err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty template name", storage.ErrValidation)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlDeleteTemplate, name)
	return
}
