package primary

import "context"

// FileOutcome classifies the result of processing a single file.
type FileOutcome int

const (
	// OutcomeSucceeded means the file was transformed and the saving
	// met the profile threshold.
	OutcomeSucceeded FileOutcome = iota
	// OutcomeSkipped means an admission check filtered the file out.
	OutcomeSkipped
	// OutcomeFailed means processing was attempted and did not stick.
	OutcomeFailed
	// OutcomeAbandoned means processing was interrupted before a
	// result existed. No record is written for abandoned files.
	OutcomeAbandoned
)

func (o FileOutcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// FileResult is the per-file report a run accumulates.
type FileResult struct {
	Class       FileOutcome
	Reason      string
	Detail      string
	OriginBytes int64
	SavedBytes  int64
	OutputPath  string
}

// FilePipeline runs one file through admission, transform and replace.
type FilePipeline interface {
	ProcessFile(ctx context.Context, path string, profile *Profile) FileResult
}

// RunRequest starts a batch over a directory tree.
type RunRequest struct {
	Root string
	// DryRun enumerates and admits but performs no transforms.
	DryRun bool
}

// RunStats is a live snapshot of a run in progress.
type RunStats struct {
	Enumerated int
	Visited    int
	Succeeded  int
	Skipped    int
	Failed     int
	SavedBytes int64
	Current    string
	Paused     bool
}

// RunResult is the final summary of a run.
type RunResult struct {
	Stats     RunStats
	Cancelled bool
}

// BatchService walks a tree and feeds each PDF through the pipeline.
// Stop cancels the whole run, SkipCurrent only the in-flight file.
type BatchService interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
	Stop()
	SkipCurrent()
	Stats() RunStats
}

// StatsService reports on the outcome store.
type StatsService interface {
	Summary(ctx context.Context) (*StoreSummary, error)
}

// StoreSummary aggregates everything recorded so far.
type StoreSummary struct {
	Total        int
	Succeeded    int
	Failed       int
	SavedKB      float64
	ByReason     map[string]int
	FirstRecord  string
	LatestRecord string
}
