package mailclient

import (
	"context"
	"io"
)

// Client is one outbound mail session bound to one sender account. Connect
// may be called explicitly up front (the dispatch worker does, so that an
// auth failure aborts before the first recipient), or left to the first Send.
type Client interface {
	io.Closer

	// Connect dials, negotiates TLS and authenticates. It is the only call
	// allowed to fail hard: ErrAuthentication when the server rejects the
	// credentials, ErrConnection for anything else.
	Connect(ctx context.Context) error

	// Send transmits one message over the shared session. It never returns a
	// per-recipient failure as an error; the boolean plus detail text lets
	// the caller keep draining a batch.
	Send(ctx context.Context, to, subject, htmlBody string, attachments []Part) (ok bool, detail string)
}
