package serverrepo

import (
	"context"

	"github.com/bbrhub/mailblast/pkg/mailclient"
)

// Repo stores SMTP submission endpoints. Seed installs the built-in provider
// profiles once; user-defined profiles live in the same table.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Seed(ctx context.Context) (err error)
	Save(ctx context.Context, profile mailclient.ServerProfile) (saved Server, err error)
	GetByName(ctx context.Context, name string) (profile mailclient.ServerProfile, err error)
	List(ctx context.Context) (profiles []mailclient.ServerProfile, err error)
	DetectByEmail(ctx context.Context, email string) (profile mailclient.ServerProfile, err error)
	Delete(ctx context.Context, name string) (err error)
}
