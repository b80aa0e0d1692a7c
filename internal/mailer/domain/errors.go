package domain

import "net/http"

// Machine-readable error codes surfaced to API clients.
const (
	CodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
	CodeMissingOrganizationID = "MISSING_ORGANIZATION_ID"
	CodeMissingFields         = "MISSING_FIELDS"
	CodeInvalidPort           = "INVALID_PORT"
	CodeInvalidAttachment     = "INVALID_ATTACHMENT"
	CodeAttachmentTooLarge    = "ATTACHMENT_TOO_LARGE"
	CodeInvalidAttachmentFmt  = "INVALID_ATTACHMENT_FORMAT"
	CodeSMTPNotFound          = "SMTP_NOT_FOUND"
	CodeTemplateNotFound      = "TEMPLATE_NOT_FOUND"
	CodeSMTPConnectionFailed  = "SMTP_CONNECTION_FAILED"
	CodeEmailSendFailed       = "EMAIL_SEND_FAILED"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeInternalError         = "INTERNAL_ERROR"
)

// Error is a coded, user-visible failure carrying the HTTP status the
// controller should answer with.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// E builds a coded error.
func E(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// BadRequest builds a 400 coded error.
func BadRequest(code, message string) *Error {
	return E(http.StatusBadRequest, code, message)
}

// NotFound builds a 404 coded error.
func NotFound(code, message string) *Error {
	return E(http.StatusNotFound, code, message)
}
