package service

import (
	"bytes"
	"context"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
)

// smtpFactory builds go-mail transports from stored configurations.
type smtpFactory struct {
	timeout time.Duration
}

var _ domain.TransportFactory = (*smtpFactory)(nil)

// NewSMTPFactory returns the production TransportFactory.
func NewSMTPFactory() domain.TransportFactory {
	return &smtpFactory{timeout: 30 * time.Second}
}

func (f *smtpFactory) Build(cfg domain.SMTPConfig) domain.Transport {
	return &smtpTransport{cfg: cfg, timeout: f.timeout}
}

// smtpTransport dials per operation: Verify opens and closes a probe
// connection, Send opens one connection per message. Within a dispatch batch
// at most batchSize sends run concurrently, which bounds simultaneous SMTP
// sessions accordingly.
type smtpTransport struct {
	cfg     domain.SMTPConfig
	timeout time.Duration
}

var _ domain.Transport = (*smtpTransport)(nil)

func (t *smtpTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithTimeout(t.timeout),
	}
	switch t.cfg.SSLMethod {
	case domain.SSLMethodImplicit:
		opts = append(opts, mail.WithSSL())
	case domain.SSLMethodStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if t.cfg.AuthMethod == domain.AuthMethodCredential {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.AuthAccount),
			mail.WithPassword(t.cfg.AuthPassword),
		)
	}
	return mail.NewClient(t.cfg.ServerAddress, opts...)
}

func (t *smtpTransport) Verify(ctx context.Context) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return err
	}
	return c.Close()
}

func (t *smtpTransport) Send(ctx context.Context, msg domain.Message) error {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		return err
	}
	if msg.CC != "" {
		if err := m.Cc(msg.CC); err != nil {
			return err
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, att := range msg.Attachments {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return err
		}
	}

	c, err := t.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, m)
}
