package app

import (
	"context"
	"testing"

	"github.com/example/pdfpress/internal/ports/primary"
)

func newProfileService() (*ProfileServiceImpl, *mockProfileRepo) {
	repo := &mockProfileRepo{}
	svc := NewProfileService(repo, newMockOutcomeRepo(), &mockCatalogRepo{})
	return svc, repo
}

func validCreateRequest() primary.CreateProfileRequest {
	return primary.CreateProfileRequest{
		MaxDepth:         -1,
		ReplaceOriginal:  true,
		CompressionLevel: 2,
		BackendID:        1,
		MinSavingBytes:   1024,
		FileTimeoutSecs:  35,
		PacingInterval:   350,
		PacingPauseSecs:  9,
		OCRMaxPages:      120,
	}
}

func TestProfileCreate(t *testing.T) {
	svc, repo := newProfileService()

	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned ID")
	}
	if created.BackendName != "ghostscript" {
		t.Errorf("BackendName = %q, want ghostscript", created.BackendName)
	}
	if len(repo.profiles) != 1 {
		t.Errorf("profile count = %d, want 1", len(repo.profiles))
	}
}

func TestProfileCreateReusesIdenticalTuple(t *testing.T) {
	svc, repo := newProfileService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	second, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("duplicate params created profile %d, want reuse of %d", second.ID, first.ID)
	}
	if len(repo.profiles) != 1 {
		t.Errorf("profile count = %d, want 1 after duplicate create", len(repo.profiles))
	}
}

func TestProfileCreateActivatesExistingMatch(t *testing.T) {
	svc, _ := newProfileService()
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.IsActive {
		t.Fatal("profile must start inactive")
	}

	req := validCreateRequest()
	req.Activate = true
	reused, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if reused.ID != first.ID {
		t.Fatalf("expected reuse of profile %d", first.ID)
	}
	if !reused.IsActive {
		t.Error("reused profile must be activated on request")
	}
}

func TestProfileCreateValidation(t *testing.T) {
	svc, _ := newProfileService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*primary.CreateProfileRequest)
	}{
		{"compression level too low", func(r *primary.CreateProfileRequest) { r.CompressionLevel = 0 }},
		{"compression level too high", func(r *primary.CreateProfileRequest) { r.CompressionLevel = 4 }},
		{"min saving zero", func(r *primary.CreateProfileRequest) { r.MinSavingBytes = 0 }},
		{"min saving over cap", func(r *primary.CreateProfileRequest) { r.MinSavingBytes = 10001 }},
		{"timeout zero", func(r *primary.CreateProfileRequest) { r.FileTimeoutSecs = 0 }},
		{"timeout over an hour", func(r *primary.CreateProfileRequest) { r.FileTimeoutSecs = 3601 }},
		{"pacing interval zero", func(r *primary.CreateProfileRequest) { r.PacingInterval = 0 }},
		{"pacing pause over a minute", func(r *primary.CreateProfileRequest) { r.PacingPauseSecs = 61 }},
		{"page ceiling negative", func(r *primary.CreateProfileRequest) {
			bad := -1.0
			r.MaxKBPerPage = &bad
		}},
		{"depth below unlimited", func(r *primary.CreateProfileRequest) { r.MaxDepth = -2 }},
		{"unknown backend", func(r *primary.CreateProfileRequest) { r.BackendID = 99 }},
		{"ocr pages zero", func(r *primary.CreateProfileRequest) { r.OCRMaxPages = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)
			if _, err := svc.Create(ctx, req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestProfileGetActiveNone(t *testing.T) {
	svc, _ := newProfileService()

	if _, err := svc.GetActive(context.Background()); err == nil {
		t.Fatal("expected error when no profile is active")
	}
}

func TestProfileActivateSwitches(t *testing.T) {
	svc, _ := newProfileService()
	ctx := context.Background()

	req := validCreateRequest()
	req.Activate = true
	first, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	other := validCreateRequest()
	other.CompressionLevel = 3
	second, err := svc.Create(ctx, other)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Activate(ctx, second.ID); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}

	active, err := svc.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active = %d, want %d", active.ID, second.ID)
	}

	got, err := svc.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsActive {
		t.Error("activation must be exclusive")
	}
}
