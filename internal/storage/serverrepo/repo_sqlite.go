package serverrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/pkg/mailclient"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/segmentio/encoding/json"
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
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateServers)
	return
}

func (p *RepoSqlite) Seed(ctx context.Context) (err error) {
	now := time.Now().UTC()
	for _, profile := range builtinProfiles() {
		var cfg []byte
		cfg, err = json.Marshal(profile)
		if err != nil {
			err = fmt.Errorf("marshalling profile '%s' error: %w", profile.Name, err)
			return
		}

		_, err = p.Config.Connection.ExecContext(ctx, sqlSeedServer, profile.Name, string(cfg), now)
		if err != nil {
			err = fmt.Errorf("seeding profile '%s' error: %w", profile.Name, err)
			return
		}
	}
	return
}

func (p *RepoSqlite) Save(ctx context.Context, profile mailclient.ServerProfile) (saved Server, err error) {
	err = validator.New().Struct(profile)
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	err = profile.Validate()
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	profile.Name = strings.ToLower(strings.TrimSpace(profile.Name))

	cfg, err := json.Marshal(profile)
	if err != nil {
		err = fmt.Errorf("marshalling profile '%s' error: %w", profile.Name, err)
		return
	}

	err = sqlx.GetContext(ctx, p.Config.Connection, &saved, sqlSaveServer,
		profile.Name, string(cfg), time.Now().UTC(),
	)
	return
}

func (p *RepoSqlite) GetByName(ctx context.Context, name string) (profile mailclient.ServerProfile, err error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return profile, storage.ErrServerWrongName
	}

	var row Server
	err = sqlx.GetContext(ctx, p.Config.Connection, &row, sqlGetServerByName, name)
	if errors.Is(err, sql.ErrNoRows) {
		err = fmt.Errorf("%w: server profile '%s'", storage.ErrNotFound, name)
		return
	}

	if err != nil {
		return
	}

	return row.Profile()
}

func (p *RepoSqlite) List(ctx context.Context) (profiles []mailclient.ServerProfile, err error) {
	var rows []Server
	err = sqlx.SelectContext(ctx, p.Config.Connection, &rows, sqlSelectServers)
	if err != nil {
		return
	}

	profiles = make([]mailclient.ServerProfile, 0, len(rows))
	for _, row := range rows {
		profile, decodeErr := row.Profile()
		if decodeErr != nil {
			err = fmt.Errorf("decoding profile '%s' error: %w", row.Name, decodeErr)
			return
		}

		profiles = append(profiles, profile)
	}
	return
}

// DetectByEmail picks the profile whose domain list contains the email's
// domain.
func (p *RepoSqlite) DetectByEmail(ctx context.Context, email string) (profile mailclient.ServerProfile, err error) {
	domain := mailclient.Credential{Address: email}.Domain()
	if domain == "" {
		return profile, storage.ErrSenderWrongEmail
	}

	profiles, err := p.List(ctx)
	if err != nil {
		return
	}

	for _, candidate := range profiles {
		for _, d := range candidate.Domains {
			if strings.EqualFold(d, domain) {
				return candidate, nil
			}
		}
	}

	err = fmt.Errorf("%w: no server profile for domain '%s'", storage.ErrNotFound, domain)
	return
}

func (p *RepoSqlite) Delete(ctx context.Context, name string) (err error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return storage.ErrServerWrongName
	}

	res, err := p.Config.Connection.ExecContext(ctx, sqlDeleteServer, name)
	if err != nil {
		return
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		err = fmt.Errorf("%w: server profile '%s' (built-in profiles cannot be deleted)", storage.ErrNotFound, name)
	}
	return
}
