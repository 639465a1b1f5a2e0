package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"

	"portfolio-backend/config"
)

// Transport hands messages to a mail provider.
type Transport interface {
	// Verify checks that the provider is reachable and accepts the credentials.
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg *Message) error
}

// SMTPTransport sends mail over SMTP (Gmail with an app password by default)
type SMTPTransport struct {
	host      string
	port      string
	username  string
	password  string
	security  string
	tlsConfig *tls.Config
}

// NewSMTPTransport creates a new SMTP transport from the service configuration
func NewSMTPTransport(cfg *config.Config) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.MailUser,
		password: cfg.MailCredential,
		security: cfg.SMTPSecurity,
		tlsConfig: &tls.Config{
			ServerName:         cfg.SMTPHost,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.SMTPInsecureSkipVerify, //nolint:gosec // opt-in for self-signed relays
		},
	}
}

// IsConfigured checks if the transport has valid SMTP configuration
func (t *SMTPTransport) IsConfigured() bool {
	return t.host != "" && t.username != "" && t.password != ""
}

func (t *SMTPTransport) addr() string {
	return net.JoinHostPort(t.host, t.port)
}

func (t *SMTPTransport) auth() smtp.Auth {
	return smtp.PlainAuth("", t.username, t.password, t.host)
}

// Verify opens a session, upgrades to TLS when configured, authenticates and quits.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	if !t.IsConfigured() {
		return ErrMailNotConfigured
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", t.addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if t.security == config.SMTPSecurityTLS {
		tlsConn := tls.Client(conn, t.tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return fmt.Errorf("tls handshake: %w", err)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer client.Close()

	if t.security == config.SMTPSecurityStartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errors.New("server does not support STARTTLS")
		}
		if err := client.StartTLS(t.tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(t.auth()); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	return client.Quit()
}

// Send delivers one message. The underlying client has no context support,
// so the call returns when ctx ends even if the SMTP exchange is still running.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if !t.IsConfigured() {
		return ErrMailNotConfigured
	}

	e := msg.Email()
	done := make(chan error, 1)
	go func() {
		switch t.security {
		case config.SMTPSecurityTLS:
			done <- e.SendWithTLS(t.addr(), t.auth(), t.tlsConfig)
		case config.SMTPSecurityStartTLS:
			done <- e.SendWithStartTLS(t.addr(), t.auth(), t.tlsConfig)
		default:
			done <- e.Send(t.addr(), t.auth())
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
