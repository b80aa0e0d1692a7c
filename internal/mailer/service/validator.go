package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
)

// MaxPDFSize caps the decoded size of one attachment.
const MaxPDFSize = 30 * 1024 * 1024

var (
	pdfHeader      = []byte("%PDF")
	unsafeNameChar = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
)

// ValidatePDF decodes an attachment and asserts it is a well-formed PDF
// within the size ceiling. Pure function: deterministic, no I/O. It runs for
// every attachment of every recipient before any network call.
//
// The sanitized filename always gains a ".pdf" suffix, even when the name
// already ends in ".pdf"; clients rely on the resulting double extension.
func ValidatePDF(att domain.Attachment) (domain.ValidatedAttachment, error) {
	content, err := base64.StdEncoding.DecodeString(att.Content)
	if err != nil {
		return domain.ValidatedAttachment{}, domain.BadRequest(
			domain.CodeInvalidAttachmentFmt,
			fmt.Sprintf("file %s is not valid base64", att.Filename),
		)
	}

	if len(content) > MaxPDFSize {
		return domain.ValidatedAttachment{}, domain.BadRequest(
			domain.CodeAttachmentTooLarge,
			fmt.Sprintf("PDF %s exceeds 30MB", att.Filename),
		)
	}

	if len(content) < len(pdfHeader) || !bytes.Equal(content[:len(pdfHeader)], pdfHeader) {
		return domain.ValidatedAttachment{}, domain.BadRequest(
			domain.CodeInvalidAttachmentFmt,
			fmt.Sprintf("file %s is not a valid PDF", att.Filename),
		)
	}

	return domain.ValidatedAttachment{
		Filename:    unsafeNameChar.ReplaceAllString(att.Filename, "_") + ".pdf",
		Content:     content,
		ContentType: "application/pdf",
	}, nil
}

// ValidateRecipients runs ValidatePDF over every attachment of every
// recipient, failing fast on the first invalid one.
func ValidateRecipients(recipients []domain.Recipient) ([]domain.ValidatedRecipient, error) {
	out := make([]domain.ValidatedRecipient, 0, len(recipients))
	for _, r := range recipients {
		vr := domain.ValidatedRecipient{Email: r.Email}
		for _, att := range r.Attachments {
			v, err := ValidatePDF(att)
			if err != nil {
				return nil, err
			}
			vr.Attachments = append(vr.Attachments, v)
		}
		out = append(out, vr)
	}
	return out, nil
}
