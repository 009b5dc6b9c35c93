package container

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/sony/sonyflake"
	"go.uber.org/multierr"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/internal/dispatch"
	"github.com/bbrhub/mailblast/internal/storage/sendlogrepo"
	"github.com/bbrhub/mailblast/internal/storage/senderrepo"
	"github.com/bbrhub/mailblast/internal/storage/serverrepo"
	"github.com/bbrhub/mailblast/internal/storage/syslogrepo"
	"github.com/bbrhub/mailblast/internal/storage/templaterepo"
	"github.com/bbrhub/mailblast/internal/storage/varrepo"
	"github.com/bbrhub/mailblast/pkg/mailclient"
	"github.com/bbrhub/mailblast/pkg/ratelimit"
	"github.com/bbrhub/mailblast/pkg/secrets"
)

// Container is an abstraction layer to be used in use-case to stitch all business logic.
// Use this when you pass into another struct.
type Container interface {
	SenderRepo() senderrepo.Repo
	ServerRepo() serverrepo.Repo
	TemplateRepo() templaterepo.Repo
	VarRepo() varrepo.Repo
	SendLogRepo() sendlogrepo.Repo
	SysLogRepo() syslogrepo.Repo
	Dispatcher() dispatch.Service
	Cooldown() *ratelimit.Cooldown
}

// DefaultContainerImpl the real implementation of Container
type DefaultContainerImpl struct {
	ctx context.Context `validate:"required"`
	cfg *config.Config  `validate:"required,structonly"`
	db  *sqlx.DB        `validate:"required"`

	senderRepo   senderrepo.Repo   `validate:"required"`
	serverRepo   serverrepo.Repo   `validate:"required"`
	templateRepo templaterepo.Repo `validate:"required"`
	varRepo      varrepo.Repo      `validate:"required"`
	sendLogRepo  sendlogrepo.Repo  `validate:"required"`
	sysLogRepo   syslogrepo.Repo   `validate:"required"`

	cooldown   *ratelimit.Cooldown `validate:"required"`
	dispatcher dispatch.Service    `validate:"required"`

	closers []Closer
}

// Ensure that DefaultContainerImpl implements Container
var _ Container = (*DefaultContainerImpl)(nil)

// Setup return pointer because it heavily used.
// This will initialize all required dependencies to run, migrate the schema
// and seed the built-in server profiles.
// This will return DefaultContainerImpl instead Container,
// the reason is when Setup called it must be close in deferred mode, any passed value using interface
// won't let user Close any dependencies during run-time.
func Setup(ctx context.Context, conf *config.Config) (*DefaultContainerImpl, error) {
	db, err := NewSqliteConn(ctx, conf.Database)
	if err != nil {
		return nil, err
	}

	dep := &DefaultContainerImpl{
		ctx:     ctx,
		cfg:     conf,
		db:      db,
		closers: []Closer{NewNamedCloser("sqlite", db)},
	}

	err = dep.setupRepos(ctx, conf)
	if err == nil {
		err = dep.setupDispatcher(conf)
	}

	if err == nil {
		err = validator.New().Struct(dep)
	}

	if err != nil {
		if _err := dep.Close(); _err != nil {
			err = fmt.Errorf("%w (teardown: %s)", err, _err)
		}

		return nil, err
	}

	return dep, nil
}

func (a *DefaultContainerImpl) setupRepos(ctx context.Context, conf *config.Config) (err error) {
	box, err := secrets.NewBox([]byte(conf.Secrets.Passphrase), []byte(conf.Secrets.Salt))
	if err != nil {
		return fmt.Errorf("secrets box error: %w", err)
	}

	a.senderRepo, err = senderrepo.Sqlite(senderrepo.RepoSqliteConfig{Connection: a.db, Secrets: box})
	if err != nil {
		return fmt.Errorf("sender repo error: %w", err)
	}

	a.serverRepo, err = serverrepo.Sqlite(serverrepo.RepoSqliteConfig{Connection: a.db})
	if err != nil {
		return fmt.Errorf("server repo error: %w", err)
	}

	a.templateRepo, err = templaterepo.Sqlite(templaterepo.RepoSqliteConfig{Connection: a.db})
	if err != nil {
		return fmt.Errorf("template repo error: %w", err)
	}

	a.varRepo, err = varrepo.Sqlite(varrepo.RepoSqliteConfig{Connection: a.db})
	if err != nil {
		return fmt.Errorf("variable repo error: %w", err)
	}

	a.sendLogRepo, err = sendlogrepo.Sqlite(sendlogrepo.RepoSqliteConfig{Connection: a.db})
	if err != nil {
		return fmt.Errorf("send log repo error: %w", err)
	}

	a.sysLogRepo, err = syslogrepo.Sqlite(syslogrepo.RepoSqliteConfig{Connection: a.db})
	if err != nil {
		return fmt.Errorf("system log repo error: %w", err)
	}

	for name, migrate := range map[string]func(context.Context) error{
		"senders":      a.senderRepo.Migrate,
		"smtp_servers": a.serverRepo.Migrate,
		"templates":    a.templateRepo.Migrate,
		"variables":    a.varRepo.Migrate,
		"send_logs":    a.sendLogRepo.Migrate,
		"system_logs":  a.sysLogRepo.Migrate,
	} {
		if err = migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s error: %w", name, err)
		}
	}

	err = a.serverRepo.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed server profiles error: %w", err)
	}

	return nil
}

func (a *DefaultContainerImpl) setupDispatcher(conf *config.Config) (err error) {
	uidGen := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if uidGen == nil {
		return fmt.Errorf("uid generator is nil")
	}

	a.cooldown = ratelimit.NewCooldown(conf.Cooldown())

	connectTimeout := conf.ConnectTimeout()
	newClient := func(cred mailclient.Credential, profile mailclient.ServerProfile) (mailclient.Client, error) {
		client, err := mailclient.NewSmtp(&mailclient.SmtpMailerConfig{
			Credential:     &cred,
			Profile:        &profile,
			ConnectTimeout: connectTimeout,
		})
		if err != nil {
			return nil, err
		}

		return client, nil
	}

	a.dispatcher, err = dispatch.New(dispatch.DefaultServiceConfig{
		UIDGen:     uidGen,
		SendLog:    a.sendLogRepo,
		Cooldown:   a.cooldown,
		NewClient:  newClient,
		PerFileMax: conf.Mailer.PerFileMaxBytes,
		TotalMax:   conf.Mailer.TotalMaxBytes,
	})
	if err != nil {
		return fmt.Errorf("dispatch service error: %w", err)
	}

	return nil
}

func (a *DefaultContainerImpl) SenderRepo() senderrepo.Repo     { return a.senderRepo }
func (a *DefaultContainerImpl) ServerRepo() serverrepo.Repo     { return a.serverRepo }
func (a *DefaultContainerImpl) TemplateRepo() templaterepo.Repo { return a.templateRepo }
func (a *DefaultContainerImpl) VarRepo() varrepo.Repo           { return a.varRepo }
func (a *DefaultContainerImpl) SendLogRepo() sendlogrepo.Repo   { return a.sendLogRepo }
func (a *DefaultContainerImpl) SysLogRepo() syslogrepo.Repo     { return a.sysLogRepo }
func (a *DefaultContainerImpl) Dispatcher() dispatch.Service    { return a.dispatcher }
func (a *DefaultContainerImpl) Cooldown() *ratelimit.Cooldown   { return a.cooldown }

// Close will close all dependencies.
func (a *DefaultContainerImpl) Close() error {
	var err error
	for _, closer := range a.closers {
		if closer == nil {
			continue
		}

		if _err := closer.Close(); _err != nil {
			err = multierr.Append(err, fmt.Errorf("close %s error: %w", closer.Name(), _err))
		}
	}

	return err
}
