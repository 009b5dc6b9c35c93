package varrepo

import (
	"context"
)

// Repo stores default substitution variables. They fill template placeholders
// when a recipient row does not carry its own value.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Set(ctx context.Context, key, value string) (err error)
	Get(ctx context.Context, key string) (value string, err error)
	All(ctx context.Context) (values map[string]string, err error)
	Delete(ctx context.Context, key string) (err error)
}
