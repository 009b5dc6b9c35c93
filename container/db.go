package container

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"

	"github.com/bbrhub/mailblast/config"
	"github.com/bbrhub/mailblast/pkg/logger"
)

type QueryLogger struct{}

func (q *QueryLogger) Log(ctx context.Context, level sqldblogger.Level, msg string, data map[string]interface{}) {
	logger.Debug(ctx, msg, logger.KV("level", level), logger.KV("sql", data))
}

var _ sqldblogger.Logger = (*QueryLogger)(nil)

// NewSqliteConn opens the application database, creating the parent directory
// on first run. WAL keeps readers unblocked while a batch worker appends, and
// the busy timeout covers the remaining writer-vs-writer contention.
func NewSqliteConn(ctx context.Context, conf config.Database) (*sqlx.DB, error) {
	if conf.Path == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if dir := filepath.Dir(conf.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("cannot create database directory '%s': %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL", conf.Path, conf.BusyTimeoutMs)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database '%s': %w", conf.Path, err)
	}

	if conf.Debug {
		db = sqldblogger.OpenDriver(dsn, db.Driver(), &QueryLogger{}, sqldblogger.WithConnectionIDFieldname("mailblast"))
	}

	sqlxConn := sqlx.NewDb(db, "sqlite3")

	// one connection: send-log and system-log appends from different
	// goroutines serialize behind the pool instead of racing for the file lock
	sqlxConn.SetMaxOpenConns(1)

	err = sqlxConn.PingContext(ctx)
	if err != nil {
		_ = sqlxConn.Close()
		return nil, fmt.Errorf("cannot reach database '%s': %w", conf.Path, err)
	}

	return sqlxConn, nil
}
