package dispatch

import (
	"context"

	"github.com/bbrhub/mailblast/pkg/mailclient"
	"github.com/bbrhub/mailblast/pkg/render"
)

// RecipientRecord is one row of an imported recipient sheet. Name and Address
// are the two mandatory columns; every other column lands in Vars and feeds
// placeholder substitution. Address is only checked for presence here: a
// syntactically broken address is still attempted and recorded as a failed
// send, it never aborts the batch up front.
type RecipientRecord struct {
	Name    string            `validate:"required"`
	Address string            `validate:"required"`
	Vars    map[string]string `validate:"-"`
}

type InputStartBatch struct {
	Credential  mailclient.Credential    `validate:"required"`
	Profile     mailclient.ServerProfile `validate:"required"`
	Template    render.Template          `validate:"required"`
	Recipients  []RecipientRecord        `validate:"required,min=1,dive"`
	Attachments []string                 `validate:"-"`

	// DefaultData fills placeholders a recipient row does not carry. Row
	// values win on collision.
	DefaultData map[string]string `validate:"-"`
}

type InputSendTest struct {
	Credential  mailclient.Credential    `validate:"required"`
	Profile     mailclient.ServerProfile `validate:"required"`
	Template    render.Template          `validate:"required"`
	TestData    map[string]string        `validate:"-"`
	Attachments []string                 `validate:"-"`
}

type OutSendTest struct {
	OK      bool
	Message string
}

// Service runs dispatch batches. At most one batch is active at a time; a new
// StartBatch cancels the previous batch and waits for its session to be
// released before opening a new one.
type Service interface {
	StartBatch(ctx context.Context, in InputStartBatch) (handle *BatchHandle, err error)
	SendTest(ctx context.Context, in InputSendTest) (out OutSendTest, err error)
}
