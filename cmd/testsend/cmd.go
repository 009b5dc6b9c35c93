package testsend

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
	"github.com/bbrhub/mailblast/internal/dispatch"
	"github.com/bbrhub/mailblast/pkg/logger"
	"github.com/bbrhub/mailblast/pkg/render"
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
	sender     string
	template   string
	attach     string
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
	c.flags = flag.NewFlagSet("test", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.StringVar(&c.sender, "sender", "", "Sending account email (must be saved first)")
	c.flags.StringVar(&c.template, "template", "", "Template name")
	c.flags.StringVar(&c.attach, "attach", "", "Comma-separated attachment paths")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Send one throttled test message to the sender's own address`
}

func (c *Cmd) Help() string {
	return `test sends the rendered template once, to the sender's own address.
Test sends share one global cooldown so a misconfigured account cannot be
hammered while debugging.

  mailblast test -sender you@example.com -template welcome`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	if c.sender == "" || c.template == "" {
		log.Println("flags -sender and -template are required")
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "test",
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

	sender, err := defaultContainer.SenderRepo().GetByEmail(ctx, c.sender)
	if err != nil {
		logger.Error(ctx, "~ unknown sender", logger.KV("error", err))
		return ExitErr
	}

	profile, err := defaultContainer.ServerRepo().GetByName(ctx, sender.ServerName)
	if err != nil {
		logger.Error(ctx, "~ unknown server profile", logger.KV("error", err))
		return ExitErr
	}

	tpl, err := defaultContainer.TemplateRepo().GetByName(ctx, c.template)
	if err != nil {
		logger.Error(ctx, "~ unknown template", logger.KV("error", err))
		return ExitErr
	}

	testData, err := defaultContainer.VarRepo().All(ctx)
	if err != nil {
		logger.Error(ctx, "~ cannot load variables", logger.KV("error", err))
		return ExitErr
	}

	// the test message goes to the operator, fill the name placeholder too
	if sender.DisplayName != "" {
		testData = render.Merge(testData, map[string]string{"name": sender.DisplayName})
	}

	out, err := defaultContainer.Dispatcher().SendTest(ctx, dispatch.InputSendTest{
		Credential:  sender.Credential(),
		Profile:     profile,
		Template:    tpl.Definition(),
		TestData:    testData,
		Attachments: splitPaths(c.attach),
	})
	if err != nil {
		fmt.Printf("test send rejected: %s\n", err)
		return ExitErr
	}

	if !out.OK {
		fmt.Printf("test send failed: %s\n", out.Message)
		return ExitErr
	}

	fmt.Printf("test message sent to %s\n", sender.Email)
	return ExitSuccess
}

func splitPaths(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
