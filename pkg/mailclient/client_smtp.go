package mailclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/multierr"

	"github.com/bbrhub/mailblast/pkg/validator"
)

const DefaultConnectTimeout = 20 * time.Second

type SmtpMailerConfig struct {
	Credential *Credential    `validate:"required"`
	Profile    *ServerProfile `validate:"required"`

	// ConnectTimeout bounds dial + TLS handshake, so a dead server cannot
	// wedge the worker inside a blocking call the cancellation check never
	// reaches. Zero means DefaultConnectTimeout.
	ConnectTimeout time.Duration `validate:"-"`
}

// SmtpMailer holds one authenticated SMTP session. A fresh TCP/TLS handshake
// plus AUTH per recipient would be unacceptably slow and many providers rate
// limit connection attempts, so the session is opened once and reused for the
// whole batch.
type SmtpMailer struct {
	Config *SmtpMailerConfig
	smtp   *smtp.Client
	lock   sync.Mutex
}

var _ Client = (*SmtpMailer)(nil)

// NewSmtp returns a new smtp client without any real connection being made.
// It connects on Connect or on the first Send.
func NewSmtp(cfg *SmtpMailerConfig) (*SmtpMailer, error) {
	err := validator.Validate(cfg)
	if err != nil {
		err = fmt.Errorf("validation error: %w", err)
		return nil, err
	}

	if err = cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	return &SmtpMailer{Config: cfg}, nil
}

func (m *SmtpMailer) Connect(ctx context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.connectLocked(ctx)
}

func (m *SmtpMailer) connectLocked(ctx context.Context) error {
	if m.smtp != nil {
		return nil
	}

	c, err := initSession(ctx, m.Config)
	if err != nil {
		return err
	}

	m.smtp = c
	return nil
}

// Send transmits one message. A failure here is a per-recipient outcome and
// never an error: the caller records it and moves on to the next recipient.
func (m *SmtpMailer) Send(ctx context.Context, to, subject, htmlBody string, attachments []Part) (bool, string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	// a sheet cell with an embedded CR/LF would smuggle extra headers into
	// the rendered message, so refuse it before touching the wire
	if !headerSafe(to) {
		return false, "recipient address contains control characters"
	}

	if err := m.connectLocked(ctx); err != nil {
		return false, err.Error()
	}

	if err := m.transmit(to, subject, htmlBody, attachments); err != nil {
		return false, err.Error()
	}

	return true, "sent"
}

func (m *SmtpMailer) transmit(to, subject, htmlBody string, attachments []Part) error {
	cred := m.Config.Credential

	// RSET aborts any mail transaction a previous failed Send may have left
	// open on the shared session (rfc5321 section 4.1.1.5)
	if err := m.smtp.Reset(); err != nil {
		return fmt.Errorf("RSET cmd failed: %w", err)
	}

	if err := m.smtp.Mail(cred.Address, nil); err != nil {
		return fmt.Errorf("MAIL cmd failed: %w", err)
	}

	if err := m.smtp.Rcpt(to); err != nil {
		return fmt.Errorf("recipient %s rejected: %w", to, err)
	}

	wc, err := m.smtp.Data()
	if err != nil {
		return fmt.Errorf("DATA cmd failed: %w", err)
	}

	msg := message{
		From:        mail.Address{Name: cred.DisplayName, Address: cred.Address},
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
		Domain:      cred.Domain(),
		Attachments: attachments,
	}

	if _, err = io.WriteString(wc, msg.render()); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write message error: %w", err)
	}

	if err = wc.Close(); err != nil {
		return fmt.Errorf("close message error: %w", err)
	}

	return nil
}

// Close terminates the session gracefully. Safe to call more than once;
// secondary teardown errors after a successful QUIT are swallowed.
func (m *SmtpMailer) Close() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.smtp == nil {
		return nil
	}

	c := m.smtp
	m.smtp = nil

	_err := c.Quit()
	if _err == nil {
		return nil
	}

	var err error
	err = multierr.Append(err, fmt.Errorf("quit command error: %w", _err))
	if _err = c.Close(); _err != nil {
		err = multierr.Append(err, fmt.Errorf("close command error: %w", _err))
		return err
	}

	return nil
}

// initSession dials, negotiates encryption, authenticates. Plain functions
// are easier to test and cannot touch stateful fields by accident.
func initSession(ctx context.Context, cfg *SmtpMailerConfig) (*smtp.Client, error) {
	cred, profile := cfg.Credential, cfg.Profile

	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", profile.Addr())
	if err != nil {
		return nil, fmt.Errorf("%w: tcp dial %s error: %s", ErrConnection, profile.Addr(), err)
	}

	if profile.UseSSL {
		tlsConn := tls.Client(conn, &tls.Config{ServerName: profile.Host})
		hsCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()

		if err = tlsConn.HandshakeContext(hsCtx); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: tls handshake error: %s", ErrConnection, err)
		}
		conn = tlsConn
	}

	c, err := smtp.NewClient(conn, profile.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: smtp handshake error: %s", ErrConnection, err)
	}

	// credentials never travel plaintext: explicit STARTTLS when configured,
	// opportunistic upgrade when the profile leaves both flags off
	if !profile.UseSSL {
		supported, _ := c.Extension("STARTTLS")
		switch {
		case profile.UseTLS && !supported:
			_ = c.Close()
			return nil, fmt.Errorf("%w: server does not support STARTTLS", ErrConnection)
		case profile.UseTLS || supported:
			if err = c.StartTLS(&tls.Config{ServerName: profile.Host}); err != nil {
				_ = c.Close()
				return nil, fmt.Errorf("%w: starttls error: %s", ErrConnection, err)
			}
		}
	}

	if err = c.Auth(sasl.NewPlainClient("", cred.Address, cred.Secret)); err != nil {
		_ = c.Close()
		if isAuthRejection(err) {
			return nil, fmt.Errorf("%w: %s", ErrAuthentication, err)
		}
		return nil, fmt.Errorf("%w: auth error: %s", ErrConnection, err)
	}

	if err = c.Noop(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("%w: session check error: %s", ErrConnection, err)
	}

	return c, nil
}

// headerSafe reports whether the address can be placed on a header line
// verbatim.
func headerSafe(addr string) bool {
	for i := 0; i < len(addr); i++ {
		if addr[i] < 0x20 || addr[i] == 0x7f {
			return false
		}
	}

	return true
}

// isAuthRejection picks the SMTP reply codes that mean "wrong credentials"
// as opposed to a transport fault during the AUTH exchange.
func isAuthRejection(err error) bool {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch smtpErr.Code {
		case 534, 535, 538:
			return true
		}
		return smtpErr.Code >= 500 && strings.Contains(strings.ToLower(smtpErr.Message), "auth")
	}

	return false
}
