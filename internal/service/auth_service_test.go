package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	svc := NewAuthService()

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login("admin", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, strings.HasPrefix(resp.AdminID, "adm_"))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAdminTokenRoundTrip(t *testing.T) {
	svc := NewAuthService()

	resp, err := svc.Login("admin", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AdminID, claims.AdminID)
	assert.Equal(t, resp.TenantID, claims.TenantID)

	_, err = svc.ValidateAdminToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsumerTokenRoundTrip(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.GenerateConsumerToken("prog_1", "scr_abc", "c_123")
	require.NoError(t, err)

	claims, err := svc.ValidateConsumerToken(token)
	require.NoError(t, err)
	assert.Equal(t, "prog_1", claims.ProgramID)
	assert.Equal(t, "scr_abc", claims.SessionID)
	assert.Equal(t, "c_123", claims.ConsumerID)
}

func TestTokenAudienceSeparation(t *testing.T) {
	svc := NewAuthService()

	token, err := svc.GenerateConsumerToken("prog_1", "scr_abc", "c_123")
	require.NoError(t, err)

	// A consumer token parses as admin claims but carries no tenant
	claims, err := svc.ValidateAdminToken(token)
	if err == nil {
		assert.Empty(t, claims.TenantID)
	}
}
