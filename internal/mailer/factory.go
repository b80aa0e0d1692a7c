package mailer

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	evdomain "github.com/mrb1sh0p/email-mass-api/internal/events/domain"
	ctrl "github.com/mrb1sh0p/email-mass-api/internal/mailer/controller"
	repo "github.com/mrb1sh0p/email-mass-api/internal/mailer/repository"
	svc "github.com/mrb1sh0p/email-mass-api/internal/mailer/service"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

// Register wires the mailer module and registers HTTP routes.
func Register(e *echo.Echo, store docstore.Store, pub evdomain.Publisher, log zerolog.Logger, auth, sendLimit echo.MiddlewareFunc) {
	r := repo.NewDocstore(store)
	s := svc.New(r, svc.NewSMTPFactory(), pub, log)
	c := ctrl.New(s)
	c.Register(e, auth, sendLimit)
}
