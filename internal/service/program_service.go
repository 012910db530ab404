package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/repository"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

var (
	ErrProgramNotFound  = errors.New("program not found")
	ErrProgramNotActive = errors.New("program is not published")
)

// ProgramService handles drug-program lifecycle and is the engine's
// catalog read path. Published catalogs are immutable.
type ProgramService struct {
	programRepo repository.ProgramRepo
}

// NewProgramService creates a new program service
func NewProgramService(programRepo repository.ProgramRepo) *ProgramService {
	return &ProgramService{
		programRepo: programRepo,
	}
}

// Create creates a new draft program
func (s *ProgramService) Create(ctx context.Context, program *model.Program) (string, error) {
	program.Status = model.ProgramDraft
	return s.programRepo.Create(ctx, program)
}

// GetByID retrieves a program by ID
func (s *ProgramService) GetByID(ctx context.Context, id string) (*model.Program, error) {
	return s.programRepo.GetByID(ctx, id)
}

// GetByTenant retrieves all programs for a tenant
func (s *ProgramService) GetByTenant(ctx context.Context, tenantID string) ([]*model.Program, error) {
	return s.programRepo.GetByTenant(ctx, tenantID)
}

// Update replaces a draft program's definition. Published programs are
// immutable and cannot be updated.
func (s *ProgramService) Update(ctx context.Context, program *model.Program) error {
	existing, err := s.programRepo.GetByID(ctx, program.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProgramNotFound
	}
	if existing.Status == model.ProgramPublished {
		return fmt.Errorf("program %s is published and immutable", program.ID)
	}
	program.TenantID = existing.TenantID
	program.Status = existing.Status
	return s.programRepo.Update(ctx, program)
}

// Publish validates the screening catalog and makes the program live.
// Catalogs failing referential integrity are rejected here, so running
// sessions never see a malformed catalog.
func (s *ProgramService) Publish(ctx context.Context, id string) (*model.Program, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	if program.Status == model.ProgramPublished {
		return program, nil
	}
	if err := program.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog rejected: %w", err)
	}
	program.Status = model.ProgramPublished
	program.Catalog.Version++
	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

// LoadCatalog returns the published catalog for a program. Sessions load
// it once at start and never observe mutation.
func (s *ProgramService) LoadCatalog(ctx context.Context, programID string) (*screening.Catalog, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	if program.Status != model.ProgramPublished {
		return nil, ErrProgramNotActive
	}
	catalog := program.Catalog
	return &catalog, nil
}
