package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkgr6286/aegis-sub002/internal/model"
)

func TestIssueCode(t *testing.T) {
	repo := newMemCodeRepo()
	svc := NewVerificationService(repo)

	vc, err := svc.Issue(context.Background(), "scr_abc", "prog_1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(vc.Code, "PV-"))
	assert.Len(t, vc.Code, 15)
	assert.Equal(t, vc.Code, strings.ToUpper(vc.Code))
	assert.Equal(t, model.CodeActive, vc.Status)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), vc.ExpiresAt, time.Minute)
}

func TestLookupCode(t *testing.T) {
	repo := newMemCodeRepo()
	svc := NewVerificationService(repo)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "scr_abc", "prog_1")
	require.NoError(t, err)

	found, err := svc.Lookup(ctx, issued.Code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "scr_abc", found.SessionID)
	assert.Equal(t, model.CodeActive, found.Status)

	missing, err := svc.Lookup(ctx, "PV-DOESNOTEXIST")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLookupExpiresLazily(t *testing.T) {
	repo := newMemCodeRepo()
	svc := NewVerificationService(repo)
	ctx := context.Background()

	expired := &model.VerificationCode{
		Code:      "PV-OLD000000000",
		SessionID: "scr_old",
		ProgramID: "prog_1",
		Status:    model.CodeActive,
		IssuedAt:  time.Now().Add(-31 * 24 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, expired))

	found, err := svc.Lookup(ctx, expired.Code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.CodeExpired, found.Status)

	// The status change is persisted
	stored, _ := repo.GetByCode(ctx, expired.Code)
	assert.Equal(t, model.CodeExpired, stored.Status)
}
