package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/example/pdfpress/internal/core/admission"
	"github.com/example/pdfpress/internal/core/pathkey"
	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// PipelineServiceImpl runs one file through admission, transformation
// and the replace step, and records exactly one outcome per path.
type PipelineServiceImpl struct {
	outcomes secondary.OutcomeRepository
	catalog  secondary.CatalogRepository
	counter  secondary.PageCounter
	files    secondary.FileManager
	backends map[int64]secondary.Transformer
	reporter secondary.Reporter

	// statFile is swapped in tests.
	statFile func(path string) (int64, error)
}

// NewPipelineService creates the per-file pipeline
func NewPipelineService(
	outcomes secondary.OutcomeRepository,
	catalog secondary.CatalogRepository,
	counter secondary.PageCounter,
	files secondary.FileManager,
	backends map[int64]secondary.Transformer,
	reporter secondary.Reporter,
) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		outcomes: outcomes,
		catalog:  catalog,
		counter:  counter,
		files:    files,
		backends: backends,
		reporter: reporter,
		statFile: fileSize,
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ProcessFile adjudicates a single file. Every terminal outcome except
// a duplicate skip or an abandoned file writes one OutcomeRecord.
// Cancellation of ctx abandons the file with no record.
func (s *PipelineServiceImpl) ProcessFile(ctx context.Context, path string, profile *primary.Profile) (result primary.FileResult) {
	key := pathkey.Normalize(path)

	// A panic inside one file must not take down the batch.
	defer func() {
		if r := recover(); r != nil {
			s.reporter.Errorf("unexpected error processing %s: %v", path, r)
			result = s.recordFailure(ctx, key, profile, admission.ReasonOther,
				fmt.Sprintf("unexpected error: %v", r), nil, nil)
		}
	}()

	if ctx.Err() != nil {
		return primary.FileResult{Class: primary.OutcomeAbandoned}
	}

	// Duplicate check. A store read error fails open: the unique path
	// column still prevents a second record.
	existing, err := s.outcomes.FindByPath(ctx, key)
	if err != nil {
		s.reporter.Warnf("outcome lookup failed for %s, proceeding: %v", path, err)
	}
	if d := admission.CheckDuplicate(existing != nil); d.Verdict == admission.VerdictSkip {
		return primary.FileResult{
			Class:  primary.OutcomeSkipped,
			Reason: d.Detail,
		}
	}

	size, err := s.statFile(path)
	if err != nil {
		d := admission.FailUnreadable(err)
		return s.recordFailure(ctx, key, profile, d.Reason, d.Detail, nil, nil)
	}
	originKB := float64(size) / 1024

	if d := admission.CheckSize(size); d.Verdict == admission.VerdictSkip {
		return s.recordSkip(ctx, key, profile, d, nil, &originKB)
	}

	var pages *int
	if profile.MaxKBPerPage != nil && s.counter != nil {
		n, err := s.counter.PageCount(path)
		if err != nil {
			// Fail open: no page count means no density judgment.
			s.reporter.Warnf("page count failed for %s, skipping density check: %v", path, err)
		} else {
			pages = &n
			if d := admission.CheckPageDensity(size, n, *profile.MaxKBPerPage); d.Verdict == admission.VerdictSkip {
				return s.recordSkip(ctx, key, profile, d, pages, &originKB)
			}
		}
	}

	backend, ok := s.backends[profile.BackendID]
	if !ok {
		return s.recordFailure(ctx, key, profile, admission.ReasonOther,
			fmt.Sprintf("unknown backend %d", profile.BackendID), pages, &originKB)
	}

	catalogEntry, err := s.catalog.BackendByID(ctx, profile.BackendID)
	if err != nil {
		s.reporter.Warnf("backend lookup failed for %s: %v", path, err)
	}
	if catalogEntry != nil && catalogEntry.SupportsOCR {
		if pages == nil && s.counter != nil {
			if n, err := s.counter.PageCount(path); err == nil {
				pages = &n
			} else {
				s.reporter.Warnf("page count failed for %s, skipping page ceiling check: %v", path, err)
			}
		}
		if pages != nil {
			if d := admission.CheckOCRPageCeiling(*pages, profile.OCRMaxPages); d.Verdict == admission.VerdictSkip {
				return s.recordSkip(ctx, key, profile, d, pages, &originKB)
			}
		}
	}

	if ctx.Err() != nil {
		return primary.FileResult{Class: primary.OutcomeAbandoned}
	}

	local, cleanup, err := s.files.StageLocal(path)
	if err != nil {
		return s.recordFailure(ctx, key, profile, admission.ReasonOther,
			fmt.Sprintf("staging failed: %v", err), pages, &originKB)
	}
	defer cleanup()

	output := s.files.ScratchPath(".pdf")
	defer func() { _ = s.files.Remove(output) }()

	params := secondary.TransformParams{
		Level:   profile.CompressionLevel,
		Timeout: time.Duration(profile.FileTimeoutSecs) * time.Second,
	}
	transformErr := backend.Transform(ctx, local, output, params)

	// A transform already in flight runs to completion, but a file
	// cancelled while it ran is never committed and gets no record.
	if ctx.Err() != nil {
		return primary.FileResult{Class: primary.OutcomeAbandoned}
	}
	if transformErr != nil {
		reason := admission.ReasonOther
		if errors.Is(transformErr, secondary.ErrTimeout) {
			reason = admission.ReasonTimeoutExceeded
		}
		return s.recordFailure(ctx, key, profile, reason, transformErr.Error(), pages, &originKB)
	}

	outSize, err := s.statFile(output)
	if err != nil {
		return s.recordFailure(ctx, key, profile, admission.ReasonOther,
			fmt.Sprintf("output missing: %v", err), pages, &originKB)
	}
	saved := size - outSize

	if saved < profile.MinSavingBytes {
		detail := fmt.Sprintf("saved %d bytes, below the %d byte threshold", saved, profile.MinSavingBytes)
		return s.recordFailure(ctx, key, profile, admission.ReasonShrankNegatively, detail, pages, &originKB)
	}

	if ctx.Err() != nil {
		return primary.FileResult{Class: primary.OutcomeAbandoned}
	}

	outputPath := path
	if profile.ReplaceOriginal {
		if err := s.files.SafeReplace(path, output); err != nil {
			return s.recordFailure(ctx, key, profile, admission.ReasonOther,
				fmt.Sprintf("replace failed, original preserved: %v", err), pages, &originKB)
		}
	} else {
		target, err := s.files.KeepCopy(path, output)
		if err != nil {
			return s.recordFailure(ctx, key, profile, admission.ReasonOther,
				fmt.Sprintf("copy failed: %v", err), pages, &originKB)
		}
		outputPath = target
	}

	savedKB := float64(saved) / 1024
	_, err = s.outcomes.Create(ctx, &secondary.OutcomeRecord{
		Path:      key,
		Success:   true,
		ProfileID: profile.ID,
		SavedKB:   savedKB,
		Pages:     pages,
		OriginKB:  &originKB,
	})
	if err != nil {
		s.reporter.Errorf("outcome write failed for %s: %v", path, err)
		return primary.FileResult{
			Class:       primary.OutcomeFailed,
			Reason:      admission.ReasonOther,
			Detail:      fmt.Sprintf("outcome write failed: %v", err),
			OriginBytes: size,
		}
	}

	return primary.FileResult{
		Class:       primary.OutcomeSucceeded,
		OriginBytes: size,
		SavedBytes:  saved,
		OutputPath:  outputPath,
	}
}

// recordSkip persists an admission skip and classifies the result.
// A store write failure downgrades the skip to a per-file failure.
func (s *PipelineServiceImpl) recordSkip(ctx context.Context, key string, profile *primary.Profile, d admission.Decision, pages *int, originKB *float64) primary.FileResult {
	_, err := s.outcomes.Create(ctx, &secondary.OutcomeRecord{
		Path:      key,
		Success:   false,
		Reason:    d.Reason,
		Detail:    d.Detail,
		ProfileID: profile.ID,
		Pages:     pages,
		OriginKB:  originKB,
	})
	if err != nil {
		s.reporter.Errorf("outcome write failed for %s: %v", key, err)
		return primary.FileResult{
			Class:  primary.OutcomeFailed,
			Reason: admission.ReasonOther,
			Detail: fmt.Sprintf("outcome write failed: %v", err),
		}
	}
	return primary.FileResult{
		Class:  primary.OutcomeSkipped,
		Reason: d.Reason,
		Detail: d.Detail,
	}
}

func (s *PipelineServiceImpl) recordFailure(ctx context.Context, key string, profile *primary.Profile, reason, detail string, pages *int, originKB *float64) primary.FileResult {
	_, err := s.outcomes.Create(ctx, &secondary.OutcomeRecord{
		Path:      key,
		Success:   false,
		Reason:    reason,
		Detail:    detail,
		ProfileID: profile.ID,
		Pages:     pages,
		OriginKB:  originKB,
	})
	if err != nil {
		s.reporter.Errorf("outcome write failed for %s: %v", key, err)
		detail = fmt.Sprintf("%s; outcome write failed: %v", detail, err)
	}
	return primary.FileResult{
		Class:  primary.OutcomeFailed,
		Reason: reason,
		Detail: detail,
	}
}

var _ primary.FilePipeline = (*PipelineServiceImpl)(nil)
