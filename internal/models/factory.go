package models

import (
	"github.com/labstack/echo/v4"

	ctrl "github.com/mrb1sh0p/email-mass-api/internal/models/controller"
	repo "github.com/mrb1sh0p/email-mass-api/internal/models/repository"
	svc "github.com/mrb1sh0p/email-mass-api/internal/models/service"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

// Register wires the models module and registers HTTP routes.
func Register(e *echo.Echo, store docstore.Store, auth echo.MiddlewareFunc) {
	r := repo.New(store)
	s := svc.New(r)
	c := ctrl.New(s)
	c.Register(e, auth)
}
