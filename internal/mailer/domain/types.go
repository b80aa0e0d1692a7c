package domain

import (
	"context"
	"time"
)

// Wire values for SMTPConfig enums, as stored.
const (
	AuthMethodCredential = "SMTP-AUTH"
	AuthMethodNone       = "None"

	SSLMethodNone     = "None"
	SSLMethodImplicit = "SSL" // implicit TLS on connect
	SSLMethodStartTLS = "TLS" // STARTTLS upgrade after connect
)

// SMTPConfig is one organization's mail server configuration. Each
// organization holds at most one live config; submissions upsert it.
type SMTPConfig struct {
	ID            string `json:"id,omitempty"`
	ServerAddress string `json:"serverAddress"`
	Port          int    `json:"port"`
	AuthMethod    string `json:"authMethod"`
	SSLMethod     string `json:"sslMethod"`
	EmailAddress  string `json:"emailAddress"`
	AuthAccount   string `json:"authAccount,omitempty"`
	AuthPassword  string `json:"authPassword,omitempty"`
}

// Attachment is the untrusted inbound shape: filename plus base64 content.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ValidatedAttachment is an attachment that passed PDF validation: sanitized
// name, decoded bytes, fixed content type.
type ValidatedAttachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Recipient is one dispatch target; request-scoped, never persisted on its own.
type Recipient struct {
	Email       string       `json:"email"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ValidatedRecipient pairs a recipient address with its validated attachments.
type ValidatedRecipient struct {
	Email       string
	Attachments []ValidatedAttachment
}

// Template is the dispatch pipeline's view of an email model: subject and
// HTML body.
type Template struct {
	ID    string
	Title string
	Body  string
}

// Message is one outbound email handed to the transport.
type Message struct {
	From        string
	To          string
	CC          string
	Subject     string
	HTML        string
	Attachments []ValidatedAttachment
}

// Transport is a mail session built from one SMTPConfig.
type Transport interface {
	// Verify confirms the transport can reach the server. Called once per
	// dispatch, before any send attempt.
	Verify(ctx context.Context) error
	// Send delivers one message. Safe for concurrent use.
	Send(ctx context.Context, msg Message) error
}

// TransportFactory builds a Transport from a stored configuration.
type TransportFactory interface {
	Build(cfg SMTPConfig) Transport
}

// DispatchResult is the immutable per-recipient outcome of one dispatch.
type DispatchResult struct {
	Email           string `json:"email"`
	Success         bool   `json:"success"`
	AttachmentsSent int    `json:"attachmentsSent,omitempty"`
	Error           string `json:"error,omitempty"`
	ErrorCode       string `json:"errorCode,omitempty"`
}

// SendLog is the persisted, append-only record of one dispatch.
type SendLog struct {
	ID              string           `json:"id"`
	ModelID         string           `json:"modelId"`
	SMTPID          string           `json:"smtpId"`
	Timestamp       time.Time        `json:"timestamp"`
	TotalRecipients int              `json:"totalRecipients"`
	SuccessCount    int              `json:"successCount"`
	ErrorCount      int              `json:"errorCount"`
	Details         []DispatchResult `json:"details"`
}

// DispatchRequest is the inbound shape of POST /send.
type DispatchRequest struct {
	ModelID    string      `json:"modelId"`
	SMTPID     string      `json:"smtpId"`
	Recipients []Recipient `json:"recipients"`
}

// Stats summarize one dispatch in the response body.
type Stats struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// DispatchResponse is the success body of POST /send. Success covers the
// dispatch itself; individual recipient failures live in Details.
type DispatchResponse struct {
	Success bool             `json:"success"`
	LogID   string           `json:"logId"`
	Stats   Stats            `json:"stats"`
	Details []DispatchResult `json:"details"`
}

// Repository abstracts the mailer's document-store access: SMTP configs,
// the template view, and send logs.
type Repository interface {
	GetSMTPConfig(ctx context.Context, orgID, id string) (SMTPConfig, bool, error)
	// FindSMTPConfig returns the organization's single live config, if any.
	FindSMTPConfig(ctx context.Context, orgID string) (SMTPConfig, bool, error)
	// SaveSMTPConfig upserts the organization's config and returns its id and
	// whether a new document was created.
	SaveSMTPConfig(ctx context.Context, orgID, userID string, cfg SMTPConfig) (string, bool, error)
	GetTemplate(ctx context.Context, orgID, id string) (Template, bool, error)
	CreateLog(ctx context.Context, orgID string, log SendLog) (string, error)
	ListLogs(ctx context.Context, orgID string) ([]SendLog, error)
}
