package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	adomain "github.com/mrb1sh0p/email-mass-api/internal/auth/domain"
	mw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	evdomain "github.com/mrb1sh0p/email-mass-api/internal/events/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/mailer/service"
)

type stubRepo struct {
	reads  int
	writes int
}

func (r *stubRepo) GetSMTPConfig(ctx context.Context, orgID, id string) (domain.SMTPConfig, bool, error) {
	r.reads++
	return domain.SMTPConfig{}, false, nil
}

func (r *stubRepo) FindSMTPConfig(ctx context.Context, orgID string) (domain.SMTPConfig, bool, error) {
	r.reads++
	return domain.SMTPConfig{}, false, nil
}

func (r *stubRepo) SaveSMTPConfig(ctx context.Context, orgID, userID string, cfg domain.SMTPConfig) (string, bool, error) {
	r.writes++
	return "smtp-1", true, nil
}

func (r *stubRepo) GetTemplate(ctx context.Context, orgID, id string) (domain.Template, bool, error) {
	r.reads++
	return domain.Template{}, false, nil
}

func (r *stubRepo) CreateLog(ctx context.Context, orgID string, log domain.SendLog) (string, error) {
	r.writes++
	return "log-1", nil
}

func (r *stubRepo) ListLogs(ctx context.Context, orgID string) ([]domain.SendLog, error) {
	return nil, nil
}

func newTestController(repo domain.Repository) *Controller {
	s := svc.New(repo, svc.NewSMTPFactory(), nopPub{}, zerolog.Nop())
	return New(s)
}

type nopPub struct{}

func (nopPub) Publish(ctx context.Context, e evdomain.Event) error { return nil }

func request(t *testing.T, method, target, body string, orgID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	mw.SetClaims(c, &adomain.Claims{Role: "org-admin", OrganizationID: orgID})
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json response: %v", err)
	}
	return out
}

func TestSaveSMTP_InvalidPortNeverWrites(t *testing.T) {
	repo := &stubRepo{}
	h := newTestController(repo)

	body := `{"serverAddress":"mail.acme.com","port":70000,"authMethod":"SMTP-AUTH","sslMethod":"TLS","emailAddress":"noreply@acme.com"}`
	c, rec := request(t, http.MethodPost, "/smtp", body, "org1")

	if err := h.saveSMTP(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode(t, rec)["errorCode"]; got != domain.CodeInvalidPort {
		t.Fatalf("errorCode = %v", got)
	}
	if repo.writes != 0 {
		t.Fatalf("config written despite invalid port")
	}
}

func TestSaveSMTP_MissingOrg(t *testing.T) {
	h := newTestController(&stubRepo{})
	c, rec := request(t, http.MethodPost, "/smtp", `{}`, "")

	if err := h.saveSMTP(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode(t, rec)["errorCode"]; got != domain.CodeMissingOrganizationID {
		t.Fatalf("errorCode = %v", got)
	}
}

func TestDispatch_InvalidAttachmentRejectedBeforeReads(t *testing.T) {
	repo := &stubRepo{}
	h := newTestController(repo)

	body := `{"modelId":"m1","smtpId":"s1","recipients":[{"email":"a@b.com","attachments":[{"filename":"x","content":"INVALID"}]}]}`
	c, rec := request(t, http.MethodPost, "/send", body, "org1")

	if err := h.dispatch(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decode(t, rec)["errorCode"]; got != domain.CodeInvalidAttachment {
		t.Fatalf("errorCode = %v", got)
	}
	if repo.reads != 0 {
		t.Fatalf("store read %d times before attachment validation", repo.reads)
	}
}

func TestRegister_AdminRoutesForbidPlainUsers(t *testing.T) {
	repo := &stubRepo{}
	h := newTestController(repo)

	asUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mw.SetClaims(c, &adomain.Claims{Role: "user", OrganizationID: "org1"})
			return next(c)
		}
	}
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	h.Register(e, asUser, passthrough)

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/smtp"},
		{http.MethodGet, "/smtp"},
		{http.MethodGet, "/emailLogs"},
	} {
		req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(`{"serverAddress":"mail.acme.com","port":587,"authMethod":"None","sslMethod":"TLS","emailAddress":"noreply@acme.com"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s status = %d for plain user", tc.method, tc.target, rec.Code)
		}
	}
	if repo.writes != 0 {
		t.Fatalf("store written %d times by non-admin requests", repo.writes)
	}
	if repo.reads != 0 {
		t.Fatalf("store read %d times by non-admin requests", repo.reads)
	}
}

type readyRepo struct{ stubRepo }

func (r *readyRepo) GetSMTPConfig(ctx context.Context, orgID, id string) (domain.SMTPConfig, bool, error) {
	return domain.SMTPConfig{ID: id, ServerAddress: "mail.acme.com", Port: 587, EmailAddress: "noreply@acme.com"}, true, nil
}

func (r *readyRepo) GetTemplate(ctx context.Context, orgID, id string) (domain.Template, bool, error) {
	return domain.Template{ID: id, Title: "Welcome", Body: "<p>hi</p>"}, true, nil
}

type okTransport struct{}

func (okTransport) Verify(ctx context.Context) error { return nil }

func (okTransport) Send(ctx context.Context, msg domain.Message) error { return nil }

type okFactory struct{}

func (okFactory) Build(cfg domain.SMTPConfig) domain.Transport { return okTransport{} }

func TestDispatch_SuccessBody(t *testing.T) {
	s := svc.New(&readyRepo{}, okFactory{}, nopPub{}, zerolog.Nop())
	h := New(s)

	body := `{"modelId":"m1","smtpId":"s1","recipients":[{"email":"a@b.com"}]}`
	c, rec := request(t, http.MethodPost, "/send", body, "org1")

	if err := h.dispatch(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out["success"] != true {
		t.Fatalf("success = %v", out["success"])
	}
	if out["logId"] != "log-1" {
		t.Fatalf("logId = %v", out["logId"])
	}
}

func TestDispatch_SMTPNotFoundIs404(t *testing.T) {
	h := newTestController(&stubRepo{})

	body := `{"modelId":"m1","smtpId":"s1","recipients":[{"email":"a@b.com"}]}`
	c, rec := request(t, http.MethodPost, "/send", body, "org1")

	if err := h.dispatch(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetSMTP_StripsPassword(t *testing.T) {
	repo := &passwordRepo{}
	h := newTestController(repo)

	c, rec := request(t, http.MethodGet, "/smtp", "", "org1")
	if err := h.getSMTP(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "hunter2") {
		t.Fatal("response leaked the smtp password")
	}
}

type passwordRepo struct{ stubRepo }

func (r *passwordRepo) FindSMTPConfig(ctx context.Context, orgID string) (domain.SMTPConfig, bool, error) {
	return domain.SMTPConfig{ID: "smtp-1", ServerAddress: "mail.acme.com", Port: 587, AuthPassword: "hunter2"}, true, nil
}
