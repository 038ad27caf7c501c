package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/catalog"
)

type stubSettings struct {
	settings catalog.Settings
	err      error
}

func (s stubSettings) GetSettings(context.Context) (catalog.Settings, error) {
	return s.settings, s.err
}

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	svc, err := NewService(Config{
		Settings: stubSettings{settings: catalog.Settings{AdminPasswordHash: hash}},
		Secret:   "test-secret-test-secret-test-1234",
		TokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc := newTestService(t, "correto123")

	token, expiresAt, err := svc.Login(context.Background(), "correto123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	subject, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, adminSubject, subject)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestService(t, "correto123")
	_, _, err := svc.Login(context.Background(), "errado")
	require.Error(t, err)
}

func TestLoginRejectsEmptyPassword(t *testing.T) {
	svc := newTestService(t, "correto123")
	_, _, err := svc.Login(context.Background(), "  ")
	require.Error(t, err)
}

func TestLoginFailsWhenSettingsUnavailable(t *testing.T) {
	svc, err := NewService(Config{
		Settings: stubSettings{err: errors.New("db down")},
		Secret:   "test-secret-test-secret-test-1234",
	})
	require.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "qualquer")
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, "correto123")
	past := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }
	token, _, err := svc.Login(context.Background(), "correto123")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuer := newTestService(t, "correto123")
	token, _, err := issuer.Login(context.Background(), "correto123")
	require.NoError(t, err)

	other, err := NewService(Config{
		Settings: stubSettings{},
		Secret:   "another-secret-entirely-5678-xyz",
	})
	require.NoError(t, err)
	_, err = other.ParseAccessToken(token)
	require.Error(t, err)
}
