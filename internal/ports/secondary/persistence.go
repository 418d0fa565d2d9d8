package secondary

import "context"

// OutcomeRecord is a durable per-file processing result. Path is stored
// in normalized form and is unique across the store.
type OutcomeRecord struct {
	ID          int64
	Path        string
	Success     bool
	Reason      string
	Detail      string
	ProfileID   int64
	SavedKB     float64
	Pages       *int
	OriginKB    *float64
	ProcessedAt string
}

// OutcomeSummary aggregates the outcome store for reporting.
type OutcomeSummary struct {
	Total        int
	Succeeded    int
	Failed       int
	SavedKB      float64
	ByReason     map[string]int
	FirstRecord  string
	LatestRecord string
}

// OutcomeRepository persists per-file outcomes keyed by normalized path.
type OutcomeRepository interface {
	// FindByPath returns the record for a normalized path, or nil when
	// the path has never been recorded.
	FindByPath(ctx context.Context, path string) (*OutcomeRecord, error)
	// Create inserts a record. When a record for the same path already
	// exists the existing record is returned unchanged.
	Create(ctx context.Context, rec *OutcomeRecord) (*OutcomeRecord, error)
	Summary(ctx context.Context) (*OutcomeSummary, error)
	CountByProfile(ctx context.Context, profileID int64) (int, error)
	// DeleteFailed removes every failure record so those files can be
	// attempted again, and reports how many were removed.
	DeleteFailed(ctx context.Context) (int, error)
	// NormalizePaths rewrites stored paths to canonical form and drops
	// records made redundant by the rewrite, keeping the oldest one.
	NormalizePaths(ctx context.Context) (updated, removed int, err error)
}

// ProfileParams is the tunable portion of a profile. Two profiles with
// equal params are considered the same profile.
type ProfileParams struct {
	MaxDepth         int
	ReplaceOriginal  bool
	CompressionLevel int
	BackendID        int64
	MinSavingBytes   int64
	FileTimeoutSecs  int
	PacingInterval   int
	PacingPauseSecs  int
	OCRMaxPages      int
	MaxKBPerPage     *float64
}

type ProfileRecord struct {
	ID int64
	ProfileParams
	Note      string
	IsActive  bool
	CreatedAt string
}

// ProfileRepository manages processing profiles. At most one profile is
// active at any time.
type ProfileRepository interface {
	GetActive(ctx context.Context) (*ProfileRecord, error)
	GetByID(ctx context.Context, id int64) (*ProfileRecord, error)
	// FindByParams returns an existing profile with identical params,
	// or nil when none matches.
	FindByParams(ctx context.Context, params ProfileParams) (*ProfileRecord, error)
	Create(ctx context.Context, params ProfileParams, note string) (*ProfileRecord, error)
	Activate(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*ProfileRecord, error)
	UpdateNote(ctx context.Context, id int64, note string) error
	Delete(ctx context.Context, id int64) error
}

type BackendRecord struct {
	ID          int64
	Name        string
	Description string
	SupportsOCR bool
}

type SkipReasonRecord struct {
	ID   int64
	Name string
	Note string
}

// CatalogRepository reads the seeded lookup tables.
type CatalogRepository interface {
	BackendByID(ctx context.Context, id int64) (*BackendRecord, error)
	Backends(ctx context.Context) ([]*BackendRecord, error)
	SkipReasonByName(ctx context.Context, name string) (*SkipReasonRecord, error)
	SkipReasons(ctx context.Context) ([]*SkipReasonRecord, error)
}
