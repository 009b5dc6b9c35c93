package templates

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/container"
	"github.com/bbrhub/mailblast/internal/storage/templaterepo"
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
	name       string
	subject    string
	bodyFile   string
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
	c.flags = flag.NewFlagSet("template", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.BoolVar(&c.set, "set", false, "Save (insert or update) a template")
	c.flags.BoolVar(&c.del, "delete", false, "Delete a template")
	c.flags.StringVar(&c.name, "name", "", "Template name")
	c.flags.StringVar(&c.subject, "subject", "", "Subject line, may contain {placeholders}")
	c.flags.StringVar(&c.bodyFile, "body", "", "Path of an HTML file used as the message body")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Manage mail templates`
}

func (c *Cmd) Help() string {
	return `template manages message templates. Without flags it lists them.

  mailblast template -set -name welcome -subject "Hi {name}" -body welcome.html
  mailblast template -delete -name welcome`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "template",
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
	if c.name == "" || c.subject == "" || c.bodyFile == "" {
		log.Println("flags -name, -subject and -body are required with -set")
		return ExitErr
	}

	body, err := os.ReadFile(c.bodyFile)
	if err != nil {
		logger.Error(ctx, "~ cannot read body file", logger.KV("error", err))
		return ExitErr
	}

	saved, err := dep.TemplateRepo().Save(ctx, templaterepo.Template{
		Name:    c.name,
		Subject: c.subject,
		Body:    string(body),
	})
	if err != nil {
		logger.Error(ctx, "~ cannot save template", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("template %s saved\n", saved.Name)
	return ExitSuccess
}

func (c *Cmd) delete(ctx context.Context, dep container.Container) int {
	if c.name == "" {
		log.Println("flag -name is required with -delete")
		return ExitErr
	}

	if err := dep.TemplateRepo().Delete(ctx, c.name); err != nil {
		logger.Error(ctx, "~ cannot delete template", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("template %s deleted\n", c.name)
	return ExitSuccess
}

func (c *Cmd) list(ctx context.Context, dep container.Container) int {
	all, err := dep.TemplateRepo().List(ctx)
	if err != nil {
		logger.Error(ctx, "~ cannot list templates", logger.KV("error", err))
		return ExitErr
	}

	if len(all) == 0 {
		fmt.Println("no templates")
		return ExitSuccess
	}

	for _, tpl := range all {
		fmt.Printf("%s  subject=%q  updated=%s\n", tpl.Name, tpl.Subject, tpl.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return ExitSuccess
}
