package logs

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/container"
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
	limit      int
	prune      int
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
	c.flags = flag.NewFlagSet("logs", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.IntVar(&c.limit, "limit", 50, "Number of entries to show, newest first")
	c.flags.IntVar(&c.prune, "prune", 0, "Delete all but the newest N entries")
	return nil
}

func (c *Cmd) Synopsis() string {
	return "Show or prune the persisted system log"
}

func (c *Cmd) Help() string {
	return `logs shows the operational log the send commands write into the database,
newest entries first. -prune trims the table down to the newest N entries.

  mailblast logs -limit 100
  mailblast logs -prune 1000`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "logs",
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

	repo := defaultContainer.SysLogRepo()

	if c.prune > 0 {
		if err = repo.Prune(ctx, c.prune); err != nil {
			logger.Error(ctx, "~ prune error", logger.KV("error", err))
			return ExitErr
		}

		fmt.Printf("pruned system log, kept newest %d entries\n", c.prune)
		return ExitSuccess
	}

	entries, err := repo.ListRecent(ctx, c.limit)
	if err != nil {
		logger.Error(ctx, "~ query error", logger.KV("error", err))
		return ExitErr
	}

	if len(entries) == 0 {
		fmt.Println("no log entries")
		return ExitSuccess
	}

	for _, entry := range entries {
		line := fmt.Sprintf("%s  %-5s  %s",
			entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Level, entry.Message)
		if entry.Fields != "" {
			line += "  " + entry.Fields
		}

		fmt.Println(line)
	}

	return ExitSuccess
}
