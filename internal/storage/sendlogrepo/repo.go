package sendlogrepo

import (
	"context"
	"time"
)

// Repo is the append-only delivery audit trail. One row per send attempt,
// grouped by batch_id. Rows are never updated or deleted.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Append(ctx context.Context, row SendLog) (inserted SendLog, err error)
	ListByBatchID(ctx context.Context, batchID string) (rows []SendLog, err error)
	ListByDateRange(ctx context.Context, from, to time.Time) (rows []SendLog, err error)
	ListBatches(ctx context.Context, limit int) (batches []BatchSummary, err error)
}
