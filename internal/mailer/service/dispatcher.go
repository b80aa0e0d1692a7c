package service

import (
	"context"
	"sync"

	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
)

// batchSize caps how many sends run concurrently. A batch must finish
// completely before the next one starts.
const batchSize = 5

// Dispatcher fans a recipient list out over a transport in fixed-size batches.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Dispatch sends the template to every recipient through the transport and
// returns one result per recipient, in input order. Recipient failures are
// recorded, not returned: the error is non-nil only when the context is
// cancelled between batches.
func (d *Dispatcher) Dispatch(ctx context.Context, tr domain.Transport, from string, tmpl domain.Template, recipients []domain.ValidatedRecipient) ([]domain.DispatchResult, error) {
	results := make([]domain.DispatchResult, len(recipients))

	for start := 0; start < len(recipients); start += batchSize {
		if err := ctx.Err(); err != nil {
			return results[:start], err
		}
		end := start + batchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = d.sendOne(ctx, tr, from, tmpl, recipients[i])
			}(i)
		}
		wg.Wait()
	}

	return results, nil
}

func (d *Dispatcher) sendOne(ctx context.Context, tr domain.Transport, from string, tmpl domain.Template, rcpt domain.ValidatedRecipient) domain.DispatchResult {
	msg := domain.Message{
		From:        from,
		To:          rcpt.Email,
		CC:          from, // sender keeps a copy of every outgoing mail
		Subject:     tmpl.Title,
		HTML:        tmpl.Body,
		Attachments: rcpt.Attachments,
	}
	if err := tr.Send(ctx, msg); err != nil {
		return domain.DispatchResult{
			Email:     rcpt.Email,
			Success:   false,
			Error:     err.Error(),
			ErrorCode: domain.CodeEmailSendFailed,
		}
	}
	return domain.DispatchResult{
		Email:           rcpt.Email,
		Success:         true,
		AttachmentsSent: len(rcpt.Attachments),
	}
}
