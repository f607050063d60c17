// internal/pkg/session/manager_test.go
package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
)

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(config.SessionConfig{
		Secret: "test-secret-key-that-is-long-enough",
		TTL:    ttl,
	}, "storefront-gateway")
}

func TestIssueAndValidate(t *testing.T) {
	mgr := newTestManager(time.Hour)

	sessionID, token, err := mgr.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.NotEmpty(t, token)

	got, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestIssueMintsDistinctSessions(t *testing.T) {
	mgr := newTestManager(time.Hour)

	first, _, err := mgr.Issue()
	require.NoError(t, err)
	second, _, err := mgr.Issue()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	mgr := newTestManager(-time.Minute)

	_, token, err := mgr.Issue()
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	mgr := newTestManager(time.Hour)
	_, token, err := mgr.Issue()
	require.NoError(t, err)

	other := NewManager(config.SessionConfig{
		Secret: "another-secret-key-that-is-long-enough",
		TTL:    time.Hour,
	}, "storefront-gateway")

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	mgr := newTestManager(time.Hour)

	_, err := mgr.Validate("not.a.token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("bearer abc"))
}
