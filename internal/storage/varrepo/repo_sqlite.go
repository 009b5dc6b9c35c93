package varrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateVariables)
	return
}

func (p *RepoSqlite) Set(ctx context.Context, key, value string) (err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty variable key", storage.ErrValidation)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlSetVariable, key, value)
	return
}

func (p *RepoSqlite) Get(ctx context.Context, key string) (value string, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty variable key", storage.ErrValidation)
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &value, sqlGetVariable, key)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: variable '%s'", storage.ErrNotFound, key)
	}
	return
}

func (p *RepoSqlite) All(ctx context.Context) (values map[string]string, err error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}

	err = sqlx.SelectContext(ctx, p.Config.Connection, &rows, sqlSelectVariables)
	if err != nil {
		return
	}

	values = make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return
}

func (p *RepoSqlite) Delete(ctx context.Context, key string) (err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty variable key", storage.ErrValidation)
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlDeleteVariable, key)
	return
}
