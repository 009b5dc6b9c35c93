package templaterepo

import (
	"context"
)

// Repo stores reusable message templates, addressed by name.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Save(ctx context.Context, tpl Template) (saved Template, err error)
	GetByName(ctx context.Context, name string) (tpl Template, err error)
	List(ctx context.Context) (tpls []Template, err error)
	Delete(ctx context.Context, name string) (err error)
}
