package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-loja/internal/catalog"
	"github.com/noah-isme/backend-loja/internal/common"
)

const (
	defaultIssuer   = "backend-loja"
	defaultAudience = "backend-loja-admin"
	adminSubject    = "admin"
)

// SettingsGetter reads the store settings holding the admin password hash.
type SettingsGetter interface {
	GetSettings(ctx context.Context) (catalog.Settings, error)
}

// Service authenticates the store admin. The store is single-tenant: there is
// exactly one admin, whose argon2id password hash lives in the settings row.
type Service struct {
	settings  SettingsGetter
	secret    []byte
	tokenTTL  time.Duration
	clockSkew time.Duration
	signer    jwa.SignatureAlgorithm
	validator TokenValidator
	now       func() time.Time
}

// Config groups Service dependencies.
type Config struct {
	Settings  SettingsGetter
	Secret    string
	TokenTTL  time.Duration
	ClockSkew time.Duration
}

// NewService constructs an auth Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Settings == nil {
		return nil, errors.New("auth: settings getter is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth: secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	skew := cfg.ClockSkew
	if skew < 0 {
		skew = 0
	}
	return &Service{
		settings:  cfg.Settings,
		secret:    []byte(cfg.Secret),
		tokenTTL:  ttl,
		clockSkew: skew,
		signer:    jwa.HS256,
		validator: TokenValidator{
			Issuer:    defaultIssuer,
			Audience:  defaultAudience,
			Subject:   adminSubject,
			ClockSkew: skew,
			Algorithm: jwa.HS256,
		},
		now: time.Now,
	}, nil
}

// HashPassword produces an argon2id hash for storage in settings.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// Login verifies the admin password against the settings hash and issues a
// short-lived access token.
func (s *Service) Login(ctx context.Context, password string) (string, time.Time, error) {
	if strings.TrimSpace(password) == "" {
		return "", time.Time{}, common.NewAppError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, nil)
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: load settings: %w", err)
	}
	if settings.AdminPasswordHash == "" {
		return "", time.Time{}, common.NewAppError("UNAUTHORIZED", "admin password not configured", http.StatusUnauthorized, nil)
	}
	match, err := argon2id.ComparePasswordAndHash(password, settings.AdminPasswordHash)
	if err != nil {
		return "", time.Time{}, common.NewAppError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, err)
	}
	if !match {
		return "", time.Time{}, common.NewAppError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, nil)
	}
	return s.signAccessToken()
}

// ParseAccessToken validates the token and returns its subject.
func (s *Service) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

func (s *Service) signAccessToken() (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	token, err := jwt.NewBuilder().
		Subject(adminSubject).
		Issuer(defaultIssuer).
		Audience([]string{defaultAudience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}
