package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/repository"
)

// codeValidity is how long an issued purchase-verification code stays
// redeemable.
const codeValidity = 30 * 24 * time.Hour

// VerificationService issues and resolves purchase-verification codes for
// eligible screenings.
type VerificationService struct {
	codeRepo repository.CodeRepo
}

// NewVerificationService creates a new verification service
func NewVerificationService(codeRepo repository.CodeRepo) *VerificationService {
	return &VerificationService{codeRepo: codeRepo}
}

// Issue mints a code for an eligible session and persists it
func (s *VerificationService) Issue(ctx context.Context, sessionID, programID string) (*model.VerificationCode, error) {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	code := &model.VerificationCode{
		Code:      "PV-" + strings.ToUpper(raw[:12]),
		SessionID: sessionID,
		ProgramID: programID,
		Status:    model.CodeActive,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(codeValidity),
	}
	if err := s.codeRepo.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

// Lookup resolves a code for pharmacy-side verification, lazily expiring
// codes past their validity window.
func (s *VerificationService) Lookup(ctx context.Context, code string) (*model.VerificationCode, error) {
	vc, err := s.codeRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if vc == nil {
		return nil, nil
	}
	if vc.Status == model.CodeActive && time.Now().After(vc.ExpiresAt) {
		vc.Status = model.CodeExpired
		if err := s.codeRepo.UpdateStatus(ctx, vc.Code, model.CodeExpired); err != nil {
			return nil, err
		}
	}
	return vc, nil
}
