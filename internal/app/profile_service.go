package app

import (
	"context"
	"fmt"

	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// ProfileServiceImpl implements primary.ProfileService
type ProfileServiceImpl struct {
	profiles secondary.ProfileRepository
	outcomes secondary.OutcomeRepository
	catalog  secondary.CatalogRepository
}

// NewProfileService creates a profile service with injected repositories
func NewProfileService(
	profiles secondary.ProfileRepository,
	outcomes secondary.OutcomeRepository,
	catalog secondary.CatalogRepository,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profiles: profiles,
		outcomes: outcomes,
		catalog:  catalog,
	}
}

// Create validates the request and inserts a profile. A request whose
// parameters match an existing profile reuses that profile.
func (s *ProfileServiceImpl) Create(ctx context.Context, req primary.CreateProfileRequest) (*primary.Profile, error) {
	params := secondary.ProfileParams{
		MaxDepth:         req.MaxDepth,
		ReplaceOriginal:  req.ReplaceOriginal,
		CompressionLevel: req.CompressionLevel,
		BackendID:        req.BackendID,
		MinSavingBytes:   req.MinSavingBytes,
		FileTimeoutSecs:  req.FileTimeoutSecs,
		PacingInterval:   req.PacingInterval,
		PacingPauseSecs:  req.PacingPauseSecs,
		OCRMaxPages:      req.OCRMaxPages,
		MaxKBPerPage:     req.MaxKBPerPage,
	}
	if err := s.validate(ctx, params); err != nil {
		return nil, err
	}

	rec, err := s.profiles.FindByParams(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing profile: %w", err)
	}
	if rec == nil {
		rec, err = s.profiles.Create(ctx, params, req.Note)
		if err != nil {
			return nil, err
		}
	}

	if req.Activate && !rec.IsActive {
		if err := s.profiles.Activate(ctx, rec.ID); err != nil {
			return nil, err
		}
		rec.IsActive = true
	}
	return s.toProfile(ctx, rec)
}

func (s *ProfileServiceImpl) validate(ctx context.Context, params secondary.ProfileParams) error {
	if params.MaxDepth < -1 {
		return fmt.Errorf("max depth must be -1 (unlimited) or >= 0, got %d", params.MaxDepth)
	}
	if params.CompressionLevel < 1 || params.CompressionLevel > 3 {
		return fmt.Errorf("compression level must be 1-3, got %d", params.CompressionLevel)
	}
	if params.MinSavingBytes < 1 || params.MinSavingBytes > 10000 {
		return fmt.Errorf("min saving must be 1-10000 bytes, got %d", params.MinSavingBytes)
	}
	if params.FileTimeoutSecs < 1 || params.FileTimeoutSecs > 3600 {
		return fmt.Errorf("file timeout must be 1-3600 seconds, got %d", params.FileTimeoutSecs)
	}
	if params.PacingInterval < 1 || params.PacingInterval > 1000 {
		return fmt.Errorf("pacing interval must be 1-1000 files, got %d", params.PacingInterval)
	}
	if params.PacingPauseSecs < 1 || params.PacingPauseSecs > 60 {
		return fmt.Errorf("pacing pause must be 1-60 seconds, got %d", params.PacingPauseSecs)
	}
	if params.OCRMaxPages < 1 || params.OCRMaxPages > 1000 {
		return fmt.Errorf("OCR page ceiling must be 1-1000, got %d", params.OCRMaxPages)
	}
	if params.MaxKBPerPage != nil && *params.MaxKBPerPage <= 0 {
		return fmt.Errorf("page size ceiling must be positive, got %v", *params.MaxKBPerPage)
	}

	backend, err := s.catalog.BackendByID(ctx, params.BackendID)
	if err != nil {
		return fmt.Errorf("failed to look up backend: %w", err)
	}
	if backend == nil {
		return fmt.Errorf("unknown backend %d", params.BackendID)
	}
	return nil
}

// GetActive returns the active profile
func (s *ProfileServiceImpl) GetActive(ctx context.Context) (*primary.Profile, error) {
	rec, err := s.profiles.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no active profile")
	}
	return s.toProfile(ctx, rec)
}

// Get returns a profile by ID
func (s *ProfileServiceImpl) Get(ctx context.Context, id int64) (*primary.Profile, error) {
	rec, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("profile %d not found", id)
	}
	return s.toProfile(ctx, rec)
}

// List returns all profiles
func (s *ProfileServiceImpl) List(ctx context.Context) ([]*primary.Profile, error) {
	recs, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make([]*primary.Profile, 0, len(recs))
	for _, rec := range recs {
		p, err := s.toProfile(ctx, rec)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// Activate makes the given profile active
func (s *ProfileServiceImpl) Activate(ctx context.Context, id int64) error {
	return s.profiles.Activate(ctx, id)
}

// UpdateNote replaces a profile's note
func (s *ProfileServiceImpl) UpdateNote(ctx context.Context, id int64, note string) error {
	return s.profiles.UpdateNote(ctx, id, note)
}

// Delete removes a profile
func (s *ProfileServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.profiles.Delete(ctx, id)
}

func (s *ProfileServiceImpl) toProfile(ctx context.Context, rec *secondary.ProfileRecord) (*primary.Profile, error) {
	backend, err := s.catalog.BackendByID(ctx, rec.BackendID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up backend: %w", err)
	}
	backendName := ""
	if backend != nil {
		backendName = backend.Name
	}

	count, err := s.outcomes.CountByProfile(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count profile records: %w", err)
	}

	return &primary.Profile{
		ID:               rec.ID,
		MaxDepth:         rec.MaxDepth,
		ReplaceOriginal:  rec.ReplaceOriginal,
		CompressionLevel: rec.CompressionLevel,
		BackendID:        rec.BackendID,
		BackendName:      backendName,
		MinSavingBytes:   rec.MinSavingBytes,
		FileTimeoutSecs:  rec.FileTimeoutSecs,
		PacingInterval:   rec.PacingInterval,
		PacingPauseSecs:  rec.PacingPauseSecs,
		OCRMaxPages:      rec.OCRMaxPages,
		MaxKBPerPage:     rec.MaxKBPerPage,
		Note:             rec.Note,
		IsActive:         rec.IsActive,
		CreatedAt:        rec.CreatedAt,
		RecordCount:      count,
	}, nil
}

var _ primary.ProfileService = (*ProfileServiceImpl)(nil)
