package servers

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
	"github.com/bbrhub/mailblast/pkg/mailclient"
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
	host       string
	port       int
	ssl        bool
	tls        bool
	domains    string
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
	c.flags = flag.NewFlagSet("server", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.BoolVar(&c.set, "set", false, "Save (insert or update) a custom profile")
	c.flags.BoolVar(&c.del, "delete", false, "Delete a custom profile")
	c.flags.StringVar(&c.name, "name", "", "Profile name")
	c.flags.StringVar(&c.host, "host", "", "SMTP host")
	c.flags.IntVar(&c.port, "port", 465, "SMTP port")
	c.flags.BoolVar(&c.ssl, "ssl", false, "Implicit TLS on connect")
	c.flags.BoolVar(&c.tls, "tls", false, "STARTTLS after the plaintext handshake")
	c.flags.StringVar(&c.domains, "domains", "", "Comma-separated mail domains this profile serves")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Manage SMTP server profiles`
}

func (c *Cmd) Help() string {
	return `server manages SMTP submission profiles. Provider presets are installed
on first run; -set adds or updates a custom profile, -delete removes one
(presets cannot be deleted). Without flags it lists all profiles.

  mailblast server -set -name mycorp -host mail.mycorp.com -port 465 -ssl -domains mycorp.com
  mailblast server -delete -name mycorp`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "server",
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
	if c.name == "" || c.host == "" {
		log.Println("flags -name and -host are required with -set")
		return ExitErr
	}

	profile := mailclient.ServerProfile{
		Name:    c.name,
		Host:    c.host,
		Port:    c.port,
		UseSSL:  c.ssl,
		UseTLS:  c.tls,
		Domains: splitDomains(c.domains),
	}

	saved, err := dep.ServerRepo().Save(ctx, profile)
	if err != nil {
		logger.Error(ctx, "~ cannot save server profile", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("server profile %s saved\n", saved.Name)
	return ExitSuccess
}

func (c *Cmd) delete(ctx context.Context, dep container.Container) int {
	if c.name == "" {
		log.Println("flag -name is required with -delete")
		return ExitErr
	}

	if err := dep.ServerRepo().Delete(ctx, c.name); err != nil {
		logger.Error(ctx, "~ cannot delete server profile", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("server profile %s deleted\n", c.name)
	return ExitSuccess
}

func (c *Cmd) list(ctx context.Context, dep container.Container) int {
	all, err := dep.ServerRepo().List(ctx)
	if err != nil {
		logger.Error(ctx, "~ cannot list server profiles", logger.KV("error", err))
		return ExitErr
	}

	for _, p := range all {
		mode := "plain"
		if p.UseSSL {
			mode = "ssl"
		} else if p.UseTLS {
			mode = "starttls"
		}

		line := fmt.Sprintf("%-12s %s:%d  %s", p.Name, p.Host, p.Port, mode)
		if len(p.Domains) > 0 {
			line += "  " + strings.Join(p.Domains, ",")
		}

		fmt.Println(line)
	}

	return ExitSuccess
}

func splitDomains(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	domains := make([]string, 0, len(parts))
	for _, d := range parts {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
