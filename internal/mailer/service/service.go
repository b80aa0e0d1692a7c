package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	evdomain "github.com/mrb1sh0p/email-mass-api/internal/events/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/metrics"
)

// Service orchestrates a dispatch end to end: validate, resolve config and
// template, verify the transport, fan out, record.
type Service struct {
	repo       domain.Repository
	transports domain.TransportFactory
	dispatcher *Dispatcher
	pub        evdomain.Publisher
	log        zerolog.Logger
}

func New(repo domain.Repository, transports domain.TransportFactory, pub evdomain.Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		transports: transports,
		dispatcher: NewDispatcher(),
		pub:        pub,
		log:        log,
	}
}

// Dispatch runs one bulk send for the organization. Validation and resource
// lookups short-circuit before any SMTP traffic; once sending starts, every
// recipient gets an attempt and the outcome is persisted regardless of how
// many failed.
func (s *Service) Dispatch(ctx context.Context, orgID, userID string, req domain.DispatchRequest) (domain.DispatchResponse, error) {
	start := time.Now()

	if req.ModelID == "" || req.SMTPID == "" || len(req.Recipients) == 0 {
		metrics.IncDispatch("rejected")
		return domain.DispatchResponse{}, domain.BadRequest(domain.CodeMissingRequiredFields,
			"modelId, smtpId and a non-empty recipients list are required")
	}

	// Attachments are untrusted input: reject the whole request before
	// touching any stored resource. Callers see a single INVALID_ATTACHMENT
	// code; the precise reason travels in the message.
	validated, err := ValidateRecipients(req.Recipients)
	if err != nil {
		metrics.IncDispatch("rejected")
		var de *domain.Error
		if errors.As(err, &de) {
			err = domain.BadRequest(domain.CodeInvalidAttachment, de.Message)
		}
		return domain.DispatchResponse{}, err
	}

	var (
		cfg  domain.SMTPConfig
		tmpl domain.Template
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, found, err := s.repo.GetSMTPConfig(gctx, orgID, req.SMTPID)
		if err != nil {
			return domain.E(http.StatusInternalServerError, domain.CodeDatabaseError, "failed to load smtp config")
		}
		if !found {
			return domain.NotFound(domain.CodeSMTPNotFound, "SMTP configuration not found")
		}
		cfg = c
		return nil
	})
	g.Go(func() error {
		t, found, err := s.repo.GetTemplate(gctx, orgID, req.ModelID)
		if err != nil {
			return domain.E(http.StatusInternalServerError, domain.CodeDatabaseError, "failed to load model")
		}
		if !found {
			return domain.NotFound(domain.CodeTemplateNotFound, "model not found")
		}
		tmpl = t
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.IncDispatch("rejected")
		return domain.DispatchResponse{}, err
	}

	tr := s.transports.Build(cfg)
	if err := tr.Verify(ctx); err != nil {
		s.log.Warn().Err(err).Str("smtpId", req.SMTPID).Msg("smtp verification failed")
		metrics.IncDispatch("rejected")
		return domain.DispatchResponse{}, domain.E(http.StatusBadGateway,
			domain.CodeSMTPConnectionFailed, "could not connect to SMTP server")
	}

	results, err := s.dispatcher.Dispatch(ctx, tr, cfg.EmailAddress, tmpl, validated)
	if err != nil {
		metrics.IncDispatch("cancelled")
		return domain.DispatchResponse{}, err
	}

	var stats domain.Stats
	for _, r := range results {
		if r.Success {
			stats.Sent++
		} else {
			stats.Failed++
		}
	}
	metrics.AddEmails("sent", stats.Sent)
	metrics.AddEmails("failed", stats.Failed)

	logID, err := s.repo.CreateLog(ctx, orgID, domain.SendLog{
		ModelID:         req.ModelID,
		SMTPID:          req.SMTPID,
		TotalRecipients: len(results),
		SuccessCount:    stats.Sent,
		ErrorCount:      stats.Failed,
		Details:         results,
	})
	if err != nil {
		// The mails are out; losing the log must not turn the dispatch into
		// an error for the caller.
		s.log.Error().Err(err).Msg("failed to persist send log")
	}

	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:   "mailer.dispatch.completed",
		OrgID:  orgID,
		UserID: userID,
		Meta: map[string]string{
			"logId":  logID,
			"sent":   strconv.Itoa(stats.Sent),
			"failed": strconv.Itoa(stats.Failed),
		},
		Time: time.Now(),
	})
	metrics.IncDispatch("completed")
	metrics.ObserveDispatchDuration(time.Since(start).Seconds())

	return domain.DispatchResponse{Success: true, LogID: logID, Stats: stats, Details: results}, nil
}

// SaveSMTPConfig validates and upserts the organization's SMTP configuration.
func (s *Service) SaveSMTPConfig(ctx context.Context, orgID, userID string, cfg domain.SMTPConfig) (domain.SMTPConfig, bool, error) {
	if cfg.ServerAddress == "" || cfg.AuthMethod == "" || cfg.SSLMethod == "" || cfg.EmailAddress == "" {
		return domain.SMTPConfig{}, false, domain.BadRequest(domain.CodeMissingFields,
			"serverAddress, authMethod, sslMethod and emailAddress are required")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return domain.SMTPConfig{}, false, domain.BadRequest(domain.CodeInvalidPort,
			"port must be between 1 and 65535")
	}

	id, created, err := s.repo.SaveSMTPConfig(ctx, orgID, userID, cfg)
	if err != nil {
		return domain.SMTPConfig{}, false, domain.E(http.StatusInternalServerError,
			domain.CodeDatabaseError, "failed to save smtp config")
	}
	cfg.ID = id

	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:   "mailer.smtp.saved",
		OrgID:  orgID,
		UserID: userID,
		Meta:   map[string]string{"smtpId": id, "created": strconv.FormatBool(created)},
		Time:   time.Now(),
	})
	return cfg, created, nil
}

// GetSMTPConfig returns the organization's live config, if any.
func (s *Service) GetSMTPConfig(ctx context.Context, orgID string) (domain.SMTPConfig, bool, error) {
	cfg, found, err := s.repo.FindSMTPConfig(ctx, orgID)
	if err != nil {
		return domain.SMTPConfig{}, false, domain.E(http.StatusInternalServerError,
			domain.CodeDatabaseError, "failed to load smtp config")
	}
	return cfg, found, nil
}

// ListLogs returns the organization's send history, newest first.
func (s *Service) ListLogs(ctx context.Context, orgID string) ([]domain.SendLog, error) {
	logs, err := s.repo.ListLogs(ctx, orgID)
	if err != nil {
		return nil, domain.E(http.StatusInternalServerError,
			domain.CodeDatabaseError, "failed to load email logs")
	}
	return logs, nil
}
