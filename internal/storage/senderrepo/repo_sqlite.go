package senderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/pkg/secrets"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

type RepoSqliteConfig struct {
	Connection sqlx.ExtContext `validate:"required"`
	Secrets    *secrets.Box    `validate:"required"`
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
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateSenders)
	return
}

func (p *RepoSqlite) Save(ctx context.Context, sender Sender) (saved Sender, err error) {
	err = validator.New().Struct(sender)
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	sender.Email = strings.ToLower(strings.TrimSpace(sender.Email))
	sender.ServerName = strings.TrimSpace(sender.ServerName)

	createdAt := sender.CreatedAt
	if createdAt.IsZero() || createdAt.Unix() <= 0 {
		createdAt = time.Now().UTC()
	}

	sealed, err := p.Config.Secrets.Encrypt(sender.Secret)
	if err != nil {
		err = fmt.Errorf("sealing sender secret error: %w", err)
		return
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlSaveSender,
		sender.Email, sender.DisplayName, sealed, sender.ServerName, createdAt,
	)
	if err != nil {
		return
	}

	saved.Secret = sender.Secret
	return
}

func (p *RepoSqlite) GetByEmail(ctx context.Context, email string) (sender Sender, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return sender, storage.ErrSenderWrongEmail
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &sender, sqlGetSenderByEmail, email)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: sender '%s'", storage.ErrNotFound, email)
		return
	}

	if err != nil {
		return
	}

	sender.Secret = p.Config.Secrets.Decrypt(sender.Secret)
	return
}

func (p *RepoSqlite) List(ctx context.Context) (senders []Sender, err error) {
	err = sqlx.SelectContext(ctx, p.Config.Connection, &senders, sqlSelectSenders)
	if err != nil {
		return
	}

	for i := range senders {
		senders[i].Secret = p.Config.Secrets.Decrypt(senders[i].Secret)
	}
	return
}

func (p *RepoSqlite) Delete(ctx context.Context, email string) (err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return storage.ErrSenderWrongEmail
	}

	_, err = p.Config.Connection.ExecContext(ctx, sqlDeleteSender, email)
	return
}
