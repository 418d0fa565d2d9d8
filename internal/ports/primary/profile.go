package primary

import "context"

// Profile is a saved set of processing parameters. Exactly one profile
// is active and drives every run until another is activated.
type Profile struct {
	ID               int64
	MaxDepth         int
	ReplaceOriginal  bool
	CompressionLevel int
	BackendID        int64
	BackendName      string
	MinSavingBytes   int64
	FileTimeoutSecs  int
	PacingInterval   int
	PacingPauseSecs  int
	OCRMaxPages      int
	MaxKBPerPage     *float64
	Note             string
	IsActive         bool
	CreatedAt        string
	RecordCount      int
}

type CreateProfileRequest struct {
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
	Note             string
	Activate         bool
}

// ProfileService manages profiles. Creating a profile whose parameters
// match an existing one reuses the existing profile instead of adding a
// duplicate row.
type ProfileService interface {
	Create(ctx context.Context, req CreateProfileRequest) (*Profile, error)
	GetActive(ctx context.Context) (*Profile, error)
	Get(ctx context.Context, id int64) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Activate(ctx context.Context, id int64) error
	UpdateNote(ctx context.Context, id int64, note string) error
	Delete(ctx context.Context, id int64) error
}
