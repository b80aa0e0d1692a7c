package repository

import (
	"context"
	"time"

	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

// Docstore persists SMTP configs, reads templates, and appends send logs,
// all scoped per organization.
type Docstore struct {
	store docstore.Store
}

var _ domain.Repository = (*Docstore)(nil)

func NewDocstore(store docstore.Store) *Docstore {
	return &Docstore{store: store}
}

func smtpCollection(orgID string) string {
	return docstore.Join("smtpConfigs", orgID, "smtpConfigs")
}

func modelCollection(orgID string) string {
	return docstore.Join("models", orgID, "models")
}

func logCollection(orgID string) string {
	return docstore.Join("emailLogs", orgID, "emailLogs")
}

func (r *Docstore) GetSMTPConfig(ctx context.Context, orgID, id string) (domain.SMTPConfig, bool, error) {
	doc, found, err := r.store.Get(ctx, docstore.Join(smtpCollection(orgID), id))
	if err != nil || !found {
		return domain.SMTPConfig{}, false, err
	}
	return smtpFromDoc(doc), true, nil
}

func (r *Docstore) FindSMTPConfig(ctx context.Context, orgID string) (domain.SMTPConfig, bool, error) {
	docs, err := r.store.Find(ctx, smtpCollection(orgID), docstore.Query{Limit: 1})
	if err != nil || len(docs) == 0 {
		return domain.SMTPConfig{}, false, err
	}
	return smtpFromDoc(docs[0]), true, nil
}

func (r *Docstore) SaveSMTPConfig(ctx context.Context, orgID, userID string, cfg domain.SMTPConfig) (string, bool, error) {
	data := map[string]any{
		"serverAddress": cfg.ServerAddress,
		"port":          cfg.Port,
		"authMethod":    cfg.AuthMethod,
		"sslMethod":     cfg.SSLMethod,
		"emailAddress":  cfg.EmailAddress,
		"authAccount":   cfg.AuthAccount,
		"authPassword":  cfg.AuthPassword,
		"updatedBy":     userID,
		"updatedAt":     docstore.ServerTimestamp,
	}

	existing, found, err := r.FindSMTPConfig(ctx, orgID)
	if err != nil {
		return "", false, err
	}
	if found {
		if err := r.store.Set(ctx, docstore.Join(smtpCollection(orgID), existing.ID), data); err != nil {
			return "", false, err
		}
		return existing.ID, false, nil
	}

	data["createdAt"] = docstore.ServerTimestamp
	id, err := r.store.Create(ctx, smtpCollection(orgID), data)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *Docstore) GetTemplate(ctx context.Context, orgID, id string) (domain.Template, bool, error) {
	doc, found, err := r.store.Get(ctx, docstore.Join(modelCollection(orgID), id))
	if err != nil || !found {
		return domain.Template{}, false, err
	}
	return domain.Template{
		ID:    doc.ID,
		Title: str(doc.Data["title"]),
		Body:  str(doc.Data["body"]),
	}, true, nil
}

func (r *Docstore) CreateLog(ctx context.Context, orgID string, log domain.SendLog) (string, error) {
	details := make([]any, 0, len(log.Details))
	for _, d := range log.Details {
		entry := map[string]any{
			"email":   d.Email,
			"success": d.Success,
		}
		if d.AttachmentsSent > 0 {
			entry["attachmentsSent"] = d.AttachmentsSent
		}
		if d.Error != "" {
			entry["error"] = d.Error
			entry["errorCode"] = d.ErrorCode
		}
		details = append(details, entry)
	}
	return r.store.Create(ctx, logCollection(orgID), map[string]any{
		"modelId":         log.ModelID,
		"smtpId":          log.SMTPID,
		"timestamp":       docstore.ServerTimestamp,
		"totalRecipients": log.TotalRecipients,
		"successCount":    log.SuccessCount,
		"errorCount":      log.ErrorCount,
		"details":         details,
	})
}

func (r *Docstore) ListLogs(ctx context.Context, orgID string) ([]domain.SendLog, error) {
	docs, err := r.store.Find(ctx, logCollection(orgID), docstore.Query{
		OrderBy: "timestamp",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	logs := make([]domain.SendLog, 0, len(docs))
	for _, doc := range docs {
		logs = append(logs, logFromDoc(doc))
	}
	return logs, nil
}

func smtpFromDoc(doc docstore.Document) domain.SMTPConfig {
	return domain.SMTPConfig{
		ID:            doc.ID,
		ServerAddress: str(doc.Data["serverAddress"]),
		Port:          num(doc.Data["port"]),
		AuthMethod:    str(doc.Data["authMethod"]),
		SSLMethod:     str(doc.Data["sslMethod"]),
		EmailAddress:  str(doc.Data["emailAddress"]),
		AuthAccount:   str(doc.Data["authAccount"]),
		AuthPassword:  str(doc.Data["authPassword"]),
	}
}

func logFromDoc(doc docstore.Document) domain.SendLog {
	log := domain.SendLog{
		ID:              doc.ID,
		ModelID:         str(doc.Data["modelId"]),
		SMTPID:          str(doc.Data["smtpId"]),
		TotalRecipients: num(doc.Data["totalRecipients"]),
		SuccessCount:    num(doc.Data["successCount"]),
		ErrorCount:      num(doc.Data["errorCount"]),
	}
	if ts, ok := doc.Data["timestamp"].(time.Time); ok {
		log.Timestamp = ts
	}
	if raw, ok := doc.Data["details"].([]any); ok {
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			log.Details = append(log.Details, domain.DispatchResult{
				Email:           str(entry["email"]),
				Success:         entry["success"] == true,
				AttachmentsSent: num(entry["attachmentsSent"]),
				Error:           str(entry["error"]),
				ErrorCode:       str(entry["errorCode"]),
			})
		}
	}
	return log
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
