package syslogrepo

import (
	"context"
	"fmt"

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
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateSystemLogs)
	return
}

func (p *RepoSqlite) Append(ctx context.Context, entry SystemLog) (err error) {
	err = validator.New().Struct(entry)
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlAppendSystemLog,
		entry.Level, entry.Message, entry.Fields, entry.CreatedAt,
	)
	return
}

func (p *RepoSqlite) ListRecent(ctx context.Context, limit int) (entries []SystemLog, err error) {
	if limit <= 0 {
		limit = 200
	}

	err = sqlx.SelectContext(ctx, p.Config.Connection, &entries, sqlSelectRecentSystemLogs, limit)
	return
}

func (p *RepoSqlite) Prune(ctx context.Context, keep int) (err error) {
	if keep < 0 {
		keep = 0
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlPruneSystemLogs, keep)
	return
}
