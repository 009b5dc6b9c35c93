package mailclient

import (
	"fmt"
	"strings"
)

// Credential is a sending mail account. Secret is the provider-issued
// authorization code, not a login password.
type Credential struct {
	Address     string `json:"address" db:"email" validate:"required,email"`
	Secret      string `json:"secret" db:"secret" validate:"required"`
	DisplayName string `json:"display_name" db:"display_name" validate:"-"`
	ServerName  string `json:"server_name" db:"server_name" validate:"required"`
}

// Domain returns the part after '@', used for Message-ID generation and
// server profile detection.
func (c Credential) Domain() string {
	if i := strings.LastIndex(c.Address, "@"); i >= 0 {
		return strings.ToLower(c.Address[i+1:])
	}

	return ""
}

// ServerProfile is a mail submission endpoint. UseSSL means implicit TLS on
// connect, UseTLS means STARTTLS after the plaintext handshake; at most one
// may be set. With both false the client connects plaintext and upgrades via
// STARTTLS when the server offers it.
type ServerProfile struct {
	Name    string   `json:"name" validate:"required"`
	Host    string   `json:"smtp_server" validate:"required"`
	Port    int      `json:"smtp_port" validate:"required"`
	UseSSL  bool     `json:"use_ssl"`
	UseTLS  bool     `json:"use_tls"`
	Domains []string `json:"domains,omitempty"`
}

// Validate enforces the SSL/TLS exclusivity invariant on top of the tag
// checks the caller already ran.
func (p ServerProfile) Validate() error {
	if p.UseSSL && p.UseTLS {
		return fmt.Errorf("server profile '%s': use_ssl and use_tls are mutually exclusive", p.Name)
	}

	return nil
}

// Addr returns host:port for dialing.
func (p ServerProfile) Addr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.Port)
}
