package storage

import "errors"

var (
	ErrValidation = errors.New("validation error")

	ErrNotFound = errors.New("row not found")

	// String Sender
	ErrSenderWrongEmail = errors.New("sender email is in wrong format")

	// String Server
	ErrServerWrongName = errors.New("server profile name is in wrong format")
)
