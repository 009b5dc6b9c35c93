package senders

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/container"
	"github.com/bbrhub/mailblast/internal/storage/senderrepo"
	"github.com/bbrhub/mailblast/pkg/logger"
)

const (
	ExitSuccess = 0
	ExitErr     = -1
)

type Cmd struct {
	flags      *flag.FlagSet
	appName    string
	appVersion string

	configFile string
	set        bool
	del        bool
	email      string
	secret     string
	name       string
	server     string
}

func NewCmd(appName, appVersion string) func() (cli.Command, error) {
	return func() (cli.Command, error) {
		cmd := &Cmd{
			appName:    appName,
			appVersion: appVersion,
		}
		err := cmd.init()
		return cmd, err
	}
}

var _ cli.Command = (*Cmd)(nil)
var _ cli.CommandFactory = NewCmd("", "")

func (c *Cmd) init() error {
	c.flags = flag.NewFlagSet("sender", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.BoolVar(&c.set, "set", false, "Save (insert or update) a sender")
	c.flags.BoolVar(&c.del, "delete", false, "Delete a sender")
	c.flags.StringVar(&c.email, "email", "", "Sender email address")
	c.flags.StringVar(&c.secret, "secret", "", "Provider authorization code (stored encrypted)")
	c.flags.StringVar(&c.name, "name", "", "Display name")
	c.flags.StringVar(&c.server, "server", "", "Server profile name (empty: detect from the email domain)")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Manage sending accounts`
}

func (c *Cmd) Help() string {
	return `sender manages sending accounts. Without flags it lists them.

  mailblast sender -set -email you@qq.com -secret <authcode>
  mailblast sender -delete -email you@qq.com`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "sender",
		AppTraceID: uuid.NewV4().String(),
	})

	configVal := &config.Config{}
	zapLog, err := config.Setup(c.configFile, configVal)
	if err != nil {
		log.Printf("error load config: %s", err)
		return ExitErr
	}

	configVal.ApplyDefaults()
	logger.SetGlobalLogger(logger.NewZap(zapLog))

	defaultContainer, err := container.Setup(ctx, configVal)
	if err != nil {
		logger.Error(ctx, "~ error setup container", logger.KV("error", err))
		return ExitErr
	}

	defer func() {
		if _err := defaultContainer.Close(); _err != nil {
			logger.Error(ctx, "~ error close container", logger.KV("error", _err))
		}
	}()

	switch {
	case c.set:
		return c.save(ctx, defaultContainer)
	case c.del:
		return c.delete(ctx, defaultContainer)
	default:
		return c.list(ctx, defaultContainer)
	}
}

func (c *Cmd) save(ctx context.Context, dep container.Container) int {
	if c.email == "" || c.secret == "" {
		log.Println("flags -email and -secret are required with -set")
		return ExitErr
	}

	serverName := c.server
	if serverName == "" {
		profile, err := dep.ServerRepo().DetectByEmail(ctx, c.email)
		if err != nil {
			logger.Error(ctx, "~ cannot detect a server profile, pass -server", logger.KV("error", err))
			return ExitErr
		}

		serverName = profile.Name
	}

	saved, err := dep.SenderRepo().Save(ctx, senderrepo.Sender{
		Email:       c.email,
		DisplayName: c.name,
		Secret:      c.secret,
		ServerName:  serverName,
	})
	if err != nil {
		logger.Error(ctx, "~ cannot save sender", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("sender %s saved (server profile: %s)\n", saved.Email, saved.ServerName)
	return ExitSuccess
}

func (c *Cmd) delete(ctx context.Context, dep container.Container) int {
	if c.email == "" {
		log.Println("flag -email is required with -delete")
		return ExitErr
	}

	if err := dep.SenderRepo().Delete(ctx, c.email); err != nil {
		logger.Error(ctx, "~ cannot delete sender", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("sender %s deleted\n", c.email)
	return ExitSuccess
}

func (c *Cmd) list(ctx context.Context, dep container.Container) int {
	all, err := dep.SenderRepo().List(ctx)
	if err != nil {
		logger.Error(ctx, "~ cannot list senders", logger.KV("error", err))
		return ExitErr
	}

	if len(all) == 0 {
		fmt.Println("no senders")
		return ExitSuccess
	}

	for _, s := range all {
		name := s.DisplayName
		if name == "" {
			name = "-"
		}

		fmt.Printf("%s  display=%s  server=%s\n", s.Email, name, s.ServerName)
	}

	return ExitSuccess
}
