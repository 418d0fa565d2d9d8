package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/pdfpress/internal/core/batch"
	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// BatchServiceImpl walks a directory tree and feeds each PDF through
// the file pipeline, one file at a time.
type BatchServiceImpl struct {
	pipeline primary.FilePipeline
	profiles primary.ProfileService
	backends map[int64]secondary.Transformer
	reporter secondary.Reporter

	mu         sync.Mutex
	state      batch.State
	stats      primary.RunStats
	cancelRun  context.CancelFunc
	cancelFile context.CancelFunc

	stopAll atomic.Bool

	// pause and walk are swapped in tests.
	pause func(ctx context.Context, d time.Duration)
	walk  func(root string, fn fs.WalkDirFunc) error
}

// NewBatchService creates a batch service over the given pipeline
func NewBatchService(
	pipeline primary.FilePipeline,
	profiles primary.ProfileService,
	backends map[int64]secondary.Transformer,
	reporter secondary.Reporter,
) *BatchServiceImpl {
	return &BatchServiceImpl{
		pipeline: pipeline,
		profiles: profiles,
		backends: backends,
		reporter: reporter,
		state:    batch.StateIdle,
		pause:    sleepUnlessCancelled,
		walk:     filepath.WalkDir,
	}
}

func sleepUnlessCancelled(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Run processes every PDF under req.Root with the active profile.
// Validation failures reject the run before any file is touched.
func (s *BatchServiceImpl) Run(ctx context.Context, req primary.RunRequest) (*primary.RunResult, error) {
	profile, err := s.profiles.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(req.Root)
	if err != nil {
		return nil, fmt.Errorf("root directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", req.Root)
	}

	backend, ok := s.backends[profile.BackendID]
	if !ok {
		return nil, fmt.Errorf("unknown backend %d", profile.BackendID)
	}
	if err := backend.Available(); err != nil {
		return nil, fmt.Errorf("backend %s is not available: %w", backend.Name(), err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	s.mu.Lock()
	if !batch.CanTransition(s.state, batch.StateEnumerating) {
		s.mu.Unlock()
		return nil, fmt.Errorf("a run is already in progress")
	}
	s.state = batch.StateEnumerating
	s.stats = primary.RunStats{}
	s.cancelRun = cancelRun
	s.stopAll.Store(false)
	s.mu.Unlock()

	defer s.setState(batch.StateIdle)

	files, err := s.enumerate(req.Root, profile.MaxDepth)
	if err != nil {
		s.setState(batch.StateCancelled)
		return nil, fmt.Errorf("enumeration failed: %w", err)
	}

	s.mu.Lock()
	s.stats.Enumerated = len(files)
	s.mu.Unlock()
	s.reporter.Infof("found %d PDF files under %s", len(files), req.Root)

	if len(files) == 0 {
		s.setState(batch.StateDone)
		return &primary.RunResult{Stats: s.Stats()}, nil
	}
	s.setState(batch.StateProcessing)

	interval := profile.PacingInterval
	pauseFor := time.Duration(profile.PacingPauseSecs) * time.Second

	cancelled := false
	for i, path := range files {
		if i > 0 && interval > 0 && i%interval == 0 {
			s.setState(batch.StatePaused)
			s.setPaused(true)
			s.reporter.Infof("pacing pause for %s", pauseFor)
			s.pause(runCtx, pauseFor)
			s.setPaused(false)
			if s.stopAll.Load() {
				cancelled = true
				break
			}
			s.setState(batch.StateProcessing)
		}

		if s.stopAll.Load() {
			cancelled = true
			break
		}

		fileCtx, cancelFile := context.WithCancel(runCtx)
		s.mu.Lock()
		s.cancelFile = cancelFile
		s.stats.Current = path
		s.mu.Unlock()

		var result primary.FileResult
		if req.DryRun {
			result = primary.FileResult{Class: primary.OutcomeSkipped, Reason: "dry run"}
			s.reporter.Infof("[%d/%d] dry run: would process %s", i+1, len(files), path)
		} else {
			result = s.pipeline.ProcessFile(fileCtx, path, profile)
		}
		cancelFile()

		s.mu.Lock()
		s.cancelFile = nil
		s.stats.Visited++
		s.stats.Current = ""
		switch result.Class {
		case primary.OutcomeSucceeded:
			s.stats.Succeeded++
			s.stats.SavedBytes += result.SavedBytes
		case primary.OutcomeSkipped:
			s.stats.Skipped++
		case primary.OutcomeFailed:
			s.stats.Failed++
		}
		s.mu.Unlock()

		s.report(i+1, len(files), path, result)

		if s.stopAll.Load() {
			cancelled = true
			break
		}
	}

	if cancelled {
		s.setState(batch.StateCancelled)
		s.reporter.Warnf("run stopped by user")
	} else {
		s.setState(batch.StateDone)
		s.reporter.Successf("run completed")
	}

	return &primary.RunResult{Stats: s.Stats(), Cancelled: cancelled}, nil
}

func (s *BatchServiceImpl) report(pos, total int, path string, result primary.FileResult) {
	switch result.Class {
	case primary.OutcomeSucceeded:
		s.reporter.Successf("[%d/%d] compressed %s, saved %d bytes", pos, total, path, result.SavedBytes)
	case primary.OutcomeSkipped:
		s.reporter.Infof("[%d/%d] skipped %s: %s", pos, total, path, result.Reason)
	case primary.OutcomeFailed:
		s.reporter.Errorf("[%d/%d] failed %s: %s (%s)", pos, total, path, result.Reason, result.Detail)
	case primary.OutcomeAbandoned:
		s.reporter.Warnf("[%d/%d] abandoned %s", pos, total, path)
	}
}

// Stop cancels the whole run, including an in-flight file and any
// pacing pause.
func (s *BatchServiceImpl) Stop() {
	s.stopAll.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelRun != nil {
		s.cancelRun()
	}
}

// SkipCurrent abandons only the file being processed right now
func (s *BatchServiceImpl) SkipCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelFile != nil {
		s.cancelFile()
	}
}

// Stats returns a snapshot of the running counters
func (s *BatchServiceImpl) Stats() primary.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *BatchServiceImpl) setState(to batch.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if to == batch.StateIdle {
		// Reset for the next run regardless of how this one ended.
		s.state = batch.StateIdle
		return
	}
	if batch.CanTransition(s.state, to) {
		s.state = to
	}
}

func (s *BatchServiceImpl) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Paused = paused
}

// enumerate collects PDF paths under root in lexical order, bounded by
// maxDepth directory levels. Zero means the root only, a negative
// value means unlimited. An unreadable entry is reported and skipped
// so a single bad directory cannot abort the whole run.
func (s *BatchServiceImpl) enumerate(root string, maxDepth int) ([]string, error) {
	var files []string
	err := s.walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.reporter.Warnf("cannot read %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if maxDepth >= 0 && depthBelow(root, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// depthBelow counts directory levels between root and path.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

var _ primary.BatchService = (*BatchServiceImpl)(nil)
