package mailclient

import "errors"

var (
	// ErrAuthentication means the server rejected the credentials. Surfaced
	// separately from ErrConnection so callers can tell the operator to
	// re-check the authorization code instead of the network settings.
	ErrAuthentication = errors.New("server rejected email or authorization code")

	// ErrConnection covers dial, handshake and session setup faults.
	ErrConnection = errors.New("failed to connect to mail server")

	// ErrAttachmentTooLarge names a single file over the per-file limit.
	ErrAttachmentTooLarge = errors.New("attachment exceeds per-file size limit")

	// ErrAttachmentBudget means the set as a whole is over the total limit.
	ErrAttachmentBudget = errors.New("attachments exceed total size limit")
)
