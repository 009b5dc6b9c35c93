package sendlogrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bbrhub/mailblast/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
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
	_, err = p.Config.Connection.ExecContext(ctx, sqlMigrateSendLogs)
	return
}

func (p *RepoSqlite) Append(ctx context.Context, row SendLog) (inserted SendLog, err error) {
	err = validator.New().Struct(row)
	if err != nil {
		err = fmt.Errorf("%w: %s", storage.ErrValidation, err)
		return
	}

	row.BatchID = strings.TrimSpace(row.BatchID)
	row.SenderEmail = strings.ToLower(strings.TrimSpace(row.SenderEmail))
	row.RecipientEmail = strings.TrimSpace(row.RecipientEmail)

	err = sqlx.GetContext(ctx, p.Config.Connection, &inserted, sqlAppendSendLog,
		row.BatchID, row.SenderEmail, row.RecipientEmail, row.RecipientName,
		row.Subject, row.Status, row.ErrorMessage, row.SendTime,
	)
	return
}

func (p *RepoSqlite) ListByBatchID(ctx context.Context, batchID string) (rows []SendLog, err error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, fmt.Errorf("%w: empty batch id", storage.ErrValidation)
	}

	err = sqlx.SelectContext(ctx, p.Config.Connection, &rows, sqlSelectByBatchID, batchID)
	return
}

// ListByDateRange returns rows with send_time inside [from, to]. Both bounds
// are dates; the whole day of `to` is included.
func (p *RepoSqlite) ListByDateRange(ctx context.Context, from, to time.Time) (rows []SendLog, err error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date before start date", storage.ErrValidation)
	}

	end := to.AddDate(0, 0, 1)
	err = sqlx.SelectContext(ctx, p.Config.Connection, &rows, sqlSelectByDateRange, from, end)
	return
}

func (p *RepoSqlite) ListBatches(ctx context.Context, limit int) (batches []BatchSummary, err error) {
	if limit <= 0 {
		limit = 100
	}

	err = sqlx.SelectContext(ctx, p.Config.Connection, &batches, sqlSelectBatches, limit)
	return
}
