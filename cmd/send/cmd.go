package send

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/container"
	"github.com/bbrhub/mailblast/internal/dispatch"
	"github.com/bbrhub/mailblast/internal/recipients"
	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/bbrhub/mailblast/internal/storage/syslogrepo"
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
	sender     string
	template   string
	sheet      string
	server     string
	attach     string
	export     string
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
	c.flags = flag.NewFlagSet("send", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.StringVar(&c.sender, "sender", "", "Sending account email (must be saved first)")
	c.flags.StringVar(&c.template, "template", "", "Template name")
	c.flags.StringVar(&c.sheet, "recipients", "", "Recipient sheet (.xlsx with name and email columns)")
	c.flags.StringVar(&c.server, "server", "", "Server profile name (default: the sender's profile)")
	c.flags.StringVar(&c.attach, "attach", "", "Comma-separated attachment paths")
	c.flags.StringVar(&c.export, "export", "", "Write the batch result to this .xlsx path")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Dispatch one email batch from a recipient sheet`
}

func (c *Cmd) Help() string {
	return `send dispatches one batch: renders the template per recipient and delivers
every message over a single SMTP session. Progress is printed per recipient;
Ctrl-C cancels at the next recipient boundary.

  mailblast send -sender you@example.com -template welcome -recipients list.xlsx`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	if c.sender == "" || c.template == "" || c.sheet == "" {
		log.Println("flags -sender, -template and -recipients are required")
		return ExitErr
	}

	// ** define system context
	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "send",
		AppTraceID: uuid.NewV4().String(),
	})

	// ** load config file
	configVal := &config.Config{}
	zapLog, err := config.Setup(c.configFile, configVal)
	if err != nil {
		log.Printf("error load config: %s", err)
		return ExitErr
	}

	configVal.ApplyDefaults()

	// ** set global logger
	logger.SetGlobalLogger(logger.NewZap(zapLog))

	logger.Info(ctx, "~ setup container")
	defaultContainer, err := container.Setup(ctx, configVal)
	if err != nil {
		logger.Error(ctx, "~ error setup container", logger.KV("error", err))
		return ExitErr
	}

	defer func() {
		logger.Info(ctx, "~ closing container")
		if _err := defaultContainer.Close(); _err != nil {
			logger.Error(ctx, "~ error close container", logger.KV("error", _err))
		}
	}()

	logger.SetGlobalLogger(persistentLogger(zapLog, defaultContainer))

	in, err := c.buildInput(ctx, defaultContainer)
	if err != nil {
		logger.Error(ctx, "~ cannot prepare batch", logger.KV("error", err))
		return ExitErr
	}

	handle, err := defaultContainer.Dispatcher().StartBatch(ctx, *in)
	if err != nil {
		logger.Error(ctx, "~ cannot start batch", logger.KV("error", err))
		return ExitErr
	}

	fmt.Printf("batch %s started: %d recipients\n", handle.BatchID(), len(in.Recipients))

	// Ctrl-C requests a cooperative stop, rows written so far stay in the log
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		fmt.Println("cancelling after the current recipient...")
		handle.Cancel()
	}()

	total := len(in.Recipients)
	for ev := range handle.Progress() {
		if ev.ErrorDetail != "" {
			fmt.Printf("[%d/%d] %s %s: %s\n", ev.Position, total, ev.Recipient, ev.Status, ev.ErrorDetail)
			continue
		}

		fmt.Printf("[%d/%d] %s %s\n", ev.Position, total, ev.Recipient, ev.Status)
	}

	outcome := <-handle.Done()
	fmt.Println(outcome.Message)

	if c.export != "" && outcome.State != dispatch.StateFatalError {
		rows, exportErr := defaultContainer.SendLogRepo().ListByBatchID(ctx, handle.BatchID())
		if exportErr == nil {
			exportErr = recipients.ExportBatchXLSX(c.export, rows)
		}

		if exportErr != nil {
			logger.Error(ctx, "~ result export error", logger.KV("error", exportErr))
			return ExitErr
		}

		fmt.Printf("result written to %s\n", c.export)
	}

	if outcome.State != dispatch.StateCompleted {
		return ExitErr
	}

	return ExitSuccess
}

func (c *Cmd) buildInput(ctx context.Context, dep container.Container) (*dispatch.InputStartBatch, error) {
	sender, err := dep.SenderRepo().GetByEmail(ctx, c.sender)
	if err != nil {
		return nil, err
	}

	profile, err := resolveProfile(ctx, dep, sender.ServerName, c.server, sender.Email)
	if err != nil {
		return nil, err
	}

	tpl, err := dep.TemplateRepo().GetByName(ctx, c.template)
	if err != nil {
		return nil, err
	}

	sheet, err := recipients.ImportXLSX(c.sheet)
	if err != nil {
		return nil, err
	}

	defaults, err := dep.VarRepo().All(ctx)
	if err != nil {
		return nil, err
	}

	return &dispatch.InputStartBatch{
		Credential:  sender.Credential(),
		Profile:     profile,
		Template:    tpl.Definition(),
		Recipients:  sheet.Records,
		Attachments: splitPaths(c.attach),
		DefaultData: defaults,
	}, nil
}

// resolveProfile prefers the explicit -server flag, then the sender's stored
// profile, then detection by the sender's domain.
func resolveProfile(ctx context.Context, dep container.Container, stored, override, email string) (mailclient.ServerProfile, error) {
	name := stored
	if override != "" {
		name = override
	}

	profile, err := dep.ServerRepo().GetByName(ctx, name)
	if errors.Is(err, storage.ErrNotFound) && override == "" {
		return dep.ServerRepo().DetectByEmail(ctx, email)
	}

	return profile, err
}

// persistentLogger tees console output into the system_logs table.
func persistentLogger(zapLog *zap.Logger, dep container.Container) logger.Logger {
	core := zapcore.NewTee(zapLog.Core(), syslogrepo.NewCore(dep.SysLogRepo(), zapcore.InfoLevel))
	return logger.NewZap(zap.New(core))
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
