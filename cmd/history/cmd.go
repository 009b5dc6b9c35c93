package history

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mitchellh/cli"
	"github.com/satori/uuid"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/container"
	"github.com/bbrhub/mailblast/internal/recipients"
	"github.com/bbrhub/mailblast/internal/storage/sendlogrepo"
	"github.com/bbrhub/mailblast/pkg/logger"
)

const (
	ExitSuccess = 0
	ExitErr     = -1
)

const dateLayout = "2006-01-02"

type Cmd struct {
	flags      *flag.FlagSet
	appName    string
	appVersion string

	configFile string
	batch      string
	from       string
	to         string
	limit      int
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
	c.flags = flag.NewFlagSet("history", flag.ContinueOnError)
	c.flags.StringVar(&c.configFile, "config", "", "Config file to load")
	c.flags.StringVar(&c.configFile, "c", "", "Alias for config file to load")
	c.flags.StringVar(&c.batch, "batch", "", "Show the rows of one batch id")
	c.flags.StringVar(&c.from, "from", "", "Start date (YYYY-MM-DD)")
	c.flags.StringVar(&c.to, "to", "", "End date, inclusive (YYYY-MM-DD)")
	c.flags.IntVar(&c.limit, "limit", 20, "Number of batches to list")
	c.flags.StringVar(&c.export, "export", "", "Write the selected rows to this .xlsx path")
	return nil
}

func (c *Cmd) Synopsis() string {
	return `Query the send audit trail by batch or date range`
}

func (c *Cmd) Help() string {
	return `history queries the send audit trail. Without flags it lists recent
batches; -batch shows one batch's rows; -from/-to select a date range with an
inclusive end date.

  mailblast history
  mailblast history -batch BATCH_123456789
  mailblast history -from 2024-03-01 -to 2024-03-10 -export march.xlsx`
}

func (c *Cmd) Run(args []string) int {
	err := c.flags.Parse(args)
	if err != nil {
		log.Printf("error parsing arguments: %s", err)
		return ExitErr
	}

	ctx := logger.Inject(context.Background(), logger.Tracer{
		Command:    "history",
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

	repo := defaultContainer.SendLogRepo()

	switch {
	case c.batch != "":
		return c.showRows(ctx, repo, func() ([]sendlogrepo.SendLog, error) {
			return repo.ListByBatchID(ctx, c.batch)
		})

	case c.from != "" || c.to != "":
		from, to, rangeErr := c.parseRange()
		if rangeErr != nil {
			log.Println(rangeErr)
			return ExitErr
		}

		return c.showRows(ctx, repo, func() ([]sendlogrepo.SendLog, error) {
			return repo.ListByDateRange(ctx, from, to)
		})

	default:
		return c.showBatches(ctx, repo)
	}
}

func (c *Cmd) parseRange() (from, to time.Time, err error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from, to = now, now

	if c.from != "" {
		from, err = time.Parse(dateLayout, c.from)
		if err != nil {
			return from, to, fmt.Errorf("invalid -from date '%s': use YYYY-MM-DD", c.from)
		}
	}

	if c.to != "" {
		to, err = time.Parse(dateLayout, c.to)
		if err != nil {
			return from, to, fmt.Errorf("invalid -to date '%s': use YYYY-MM-DD", c.to)
		}
	}

	if c.from == "" {
		from = to
	}

	return from, to, nil
}

func (c *Cmd) showRows(ctx context.Context, repo sendlogrepo.Repo, query func() ([]sendlogrepo.SendLog, error)) int {
	rows, err := query()
	if err != nil {
		logger.Error(ctx, "~ query error", logger.KV("error", err))
		return ExitErr
	}

	if len(rows) == 0 {
		fmt.Println("no rows")
		return ExitSuccess
	}

	for _, row := range rows {
		line := fmt.Sprintf("%s  %s  %-7s  %s -> %s  %q",
			row.SendTime.Format("2006-01-02 15:04:05"), row.BatchID, row.Status,
			row.SenderEmail, row.RecipientEmail, row.Subject)
		if row.ErrorMessage != "" {
			line += "  (" + row.ErrorMessage + ")"
		}

		fmt.Println(line)
	}

	if c.export != "" {
		if err := recipients.ExportBatchXLSX(c.export, rows); err != nil {
			logger.Error(ctx, "~ export error", logger.KV("error", err))
			return ExitErr
		}

		fmt.Printf("rows written to %s\n", c.export)
	}

	return ExitSuccess
}

func (c *Cmd) showBatches(ctx context.Context, repo sendlogrepo.Repo) int {
	batches, err := repo.ListBatches(ctx, c.limit)
	if err != nil {
		logger.Error(ctx, "~ query error", logger.KV("error", err))
		return ExitErr
	}

	if len(batches) == 0 {
		fmt.Println("no batches")
		return ExitSuccess
	}

	for _, b := range batches {
		fmt.Printf("%s  total=%d success=%d failure=%d  last=%s\n",
			b.BatchID, b.Total, b.Succeeded, b.Failed, b.LastSend)
	}

	return ExitSuccess
}
