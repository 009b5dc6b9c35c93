package senderrepo

import (
	"time"

	"github.com/bbrhub/mailblast/pkg/mailclient"
)

// Sender is a stored sending account. Secret is the provider-issued
// authorization code.
type Sender struct {
	ID          int64     `json:"id" db:"id" validate:"-"` // primary key
	Email       string    `json:"email" db:"email" validate:"required,email"`
	DisplayName string    `json:"display_name" db:"display_name" validate:"-"`
	Secret      string    `json:"-" db:"secret" validate:"required"`
	ServerName  string    `json:"server_name" db:"server_name" validate:"required"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" validate:"-"`
}

// Credential converts the stored row into the shape the mail client dials with.
func (s Sender) Credential() mailclient.Credential {
	return mailclient.Credential{
		Address:     s.Email,
		Secret:      s.Secret,
		DisplayName: s.DisplayName,
		ServerName:  s.ServerName,
	}
}
