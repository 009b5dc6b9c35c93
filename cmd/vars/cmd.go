package vars

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

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
	set        string
	del        string
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
	c.flags = flag.NewFlagSet("variable", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.StringVar(&c.set, "set", "", "Save a default variable as key=value")
	c.flags.StringVar(&c.del, "delete", "", "Delete a variable by key")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Manage shared substitution variables`
}

func (c *Cmd) Help() string {
	return `variable manages default substitution values. They fill {placeholders}
that a recipient row does not provide. Without flags it lists them.

  mailblast variable -set company=BBRHub
  mailblast variable -delete company`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "variable",
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
	case c.set != "":
		key, value, ok := strings.Cut(c.set, "=")
		if !ok || strings.TrimSpace(key) == "" {
			log.Println("-set expects key=value")
			return ExitErr
		}

		if err := defaultContainer.VarRepo().Set(ctx, key, value); err != nil {
			logger.Error(ctx, "~ cannot save variable", logger.KV("error", err))
			return ExitErr
		}

		fmt.Printf("variable %s saved\n", key)
		return ExitSuccess

	case c.del != "":
		if err := defaultContainer.VarRepo().Delete(ctx, c.del); err != nil {
			logger.Error(ctx, "~ cannot delete variable", logger.KV("error", err))
			return ExitErr
		}

		fmt.Printf("variable %s deleted\n", c.del)
		return ExitSuccess

	default:
		all, err := defaultContainer.VarRepo().All(ctx)
		if err != nil {
			logger.Error(ctx, "~ cannot list variables", logger.KV("error", err))
			return ExitErr
		}

		if len(all) == 0 {
			fmt.Println("no variables")
			return ExitSuccess
		}

		for k, v := range all {
			fmt.Printf("%s=%s\n", k, v)
		}

		return ExitSuccess
	}
}
