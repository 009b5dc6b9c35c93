package syslogrepo

import (
	"context"
)

// Repo keeps the operational log inside the same database as the send audit
// trail, so one file carries the whole history of the installation.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Append(ctx context.Context, entry SystemLog) (err error)
	ListRecent(ctx context.Context, limit int) (entries []SystemLog, err error)
	Prune(ctx context.Context, keep int) (err error)
}
