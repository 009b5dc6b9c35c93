package senderrepo

import (
	"context"
)

// Repo stores sending accounts. Secrets are encrypted at rest and come back
// decrypted from every read.
type Repo interface {
	Migrate(ctx context.Context) (err error)
	Save(ctx context.Context, sender Sender) (saved Sender, err error)
	GetByEmail(ctx context.Context, email string) (sender Sender, err error)
	List(ctx context.Context) (senders []Sender, err error)
	Delete(ctx context.Context, email string) (err error)
}
