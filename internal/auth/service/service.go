package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mrb1sh0p/email-mass-api/internal/auth/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/config"
	evdomain "github.com/mrb1sh0p/email-mass-api/internal/events/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/metrics"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

type Service struct {
	idp   identity.Provider
	users udomain.Repository
	cfg   config.Config
	pub   evdomain.Publisher
	log   zerolog.Logger
}

func New(idp identity.Provider, users udomain.Repository, cfg config.Config, pub evdomain.Publisher, log zerolog.Logger) *Service {
	return &Service{idp: idp, users: users, cfg: cfg, pub: pub, log: log}
}

// Login verifies credentials with the identity provider, loads the user's
// stored profile, and issues an HS256 session token.
func (s *Service) Login(ctx context.Context, in domain.LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return "", domain.ErrMissingCredentials
	}

	uid, err := s.idp.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		metrics.IncAuthOutcome("failure")
		if errors.Is(err, identity.ErrWrongPassword) || errors.Is(err, identity.ErrUserNotFound) {
			return "", &domain.CredentialError{Code: err.Error()}
		}
		return "", err
	}

	user, found, err := s.users.Get(ctx, uid)
	if err != nil {
		return "", err
	}
	if !found {
		// Account exists at the provider but has no profile document.
		metrics.IncAuthOutcome("failure")
		return "", &domain.CredentialError{Code: identity.ErrUserNotFound.Error()}
	}

	now := time.Now()
	claims := domain.Claims{
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	_ = s.pub.Publish(ctx, evdomain.Event{
		Type:   "auth.login.success",
		OrgID:  user.OrganizationID,
		UserID: uid,
		Meta:   map[string]string{"email": in.Email, "role": user.Role},
		Time:   now,
	})
	metrics.IncAuthOutcome("success")
	s.log.Debug().Str("uid", uid).Str("role", user.Role).Msg("login ok")
	return token, nil
}
