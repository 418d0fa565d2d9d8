package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/pdfpress/internal/ports/primary"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// mockOutcomeRepo is an in-memory outcome store keyed by path.
type mockOutcomeRepo struct {
	mu      sync.Mutex
	records map[string]*secondary.OutcomeRecord
	nextID  int64

	findErr   error
	createErr error
}

func newMockOutcomeRepo() *mockOutcomeRepo {
	return &mockOutcomeRepo{records: make(map[string]*secondary.OutcomeRecord)}
}

func (m *mockOutcomeRepo) FindByPath(ctx context.Context, path string) (*secondary.OutcomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.records[path], nil
}

func (m *mockOutcomeRepo) Create(ctx context.Context, rec *secondary.OutcomeRecord) (*secondary.OutcomeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if existing, ok := m.records[rec.Path]; ok {
		return existing, nil
	}
	m.nextID++
	stored := *rec
	stored.ID = m.nextID
	m.records[rec.Path] = &stored
	return &stored, nil
}

func (m *mockOutcomeRepo) Summary(ctx context.Context) (*secondary.OutcomeSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := &secondary.OutcomeSummary{ByReason: make(map[string]int)}
	for _, rec := range m.records {
		sum.Total++
		if rec.Success {
			sum.Succeeded++
			sum.SavedKB += rec.SavedKB
		} else {
			sum.Failed++
			sum.ByReason[rec.Reason]++
		}
	}
	return sum, nil
}

func (m *mockOutcomeRepo) CountByProfile(ctx context.Context, profileID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, rec := range m.records {
		if rec.ProfileID == profileID {
			count++
		}
	}
	return count, nil
}

func (m *mockOutcomeRepo) DeleteFailed(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for path, rec := range m.records {
		if !rec.Success {
			delete(m.records, path)
			removed++
		}
	}
	return removed, nil
}

func (m *mockOutcomeRepo) NormalizePaths(ctx context.Context) (int, int, error) {
	return 0, 0, nil
}

func (m *mockOutcomeRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *mockOutcomeRepo) get(path string) *secondary.OutcomeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[path]
}

// mockProfileRepo stores profiles in memory.
type mockProfileRepo struct {
	profiles []*secondary.ProfileRecord
	nextID   int64
}

func (m *mockProfileRepo) GetActive(ctx context.Context) (*secondary.ProfileRecord, error) {
	for _, p := range m.profiles {
		if p.IsActive {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id int64) (*secondary.ProfileRecord, error) {
	for _, p := range m.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProfileRepo) FindByParams(ctx context.Context, params secondary.ProfileParams) (*secondary.ProfileRecord, error) {
	for _, p := range m.profiles {
		if paramsEqual(p.ProfileParams, params) {
			return p, nil
		}
	}
	return nil, nil
}

func paramsEqual(a, b secondary.ProfileParams) bool {
	if a.MaxKBPerPage == nil != (b.MaxKBPerPage == nil) {
		return false
	}
	if a.MaxKBPerPage != nil && *a.MaxKBPerPage != *b.MaxKBPerPage {
		return false
	}
	a.MaxKBPerPage, b.MaxKBPerPage = nil, nil
	return a == b
}

func (m *mockProfileRepo) Create(ctx context.Context, params secondary.ProfileParams, note string) (*secondary.ProfileRecord, error) {
	m.nextID++
	rec := &secondary.ProfileRecord{
		ID:            m.nextID,
		ProfileParams: params,
		Note:          note,
	}
	m.profiles = append(m.profiles, rec)
	return rec, nil
}

func (m *mockProfileRepo) Activate(ctx context.Context, id int64) error {
	found := false
	for _, p := range m.profiles {
		p.IsActive = p.ID == id
		if p.IsActive {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("profile %d not found", id)
	}
	return nil
}

func (m *mockProfileRepo) List(ctx context.Context) ([]*secondary.ProfileRecord, error) {
	return m.profiles, nil
}

func (m *mockProfileRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	for _, p := range m.profiles {
		if p.ID == id {
			p.Note = note
			return nil
		}
	}
	return fmt.Errorf("profile %d not found", id)
}

func (m *mockProfileRepo) Delete(ctx context.Context, id int64) error {
	for i, p := range m.profiles {
		if p.ID == id {
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile %d not found", id)
}

// mockCatalogRepo serves the seeded backend catalog.
type mockCatalogRepo struct{}

func (m *mockCatalogRepo) BackendByID(ctx context.Context, id int64) (*secondary.BackendRecord, error) {
	backends := map[int64]*secondary.BackendRecord{
		1: {ID: 1, Name: "ghostscript"},
		2: {ID: 2, Name: "ghostscript-standard"},
		3: {ID: 3, Name: "ghostscript-image-only"},
		4: {ID: 4, Name: "tesseract-ocr", SupportsOCR: true},
		5: {ID: 5, Name: "tesseract-ghostscript", SupportsOCR: true},
	}
	return backends[id], nil
}

func (m *mockCatalogRepo) Backends(ctx context.Context) ([]*secondary.BackendRecord, error) {
	return nil, nil
}

func (m *mockCatalogRepo) SkipReasonByName(ctx context.Context, name string) (*secondary.SkipReasonRecord, error) {
	return &secondary.SkipReasonRecord{Name: name}, nil
}

func (m *mockCatalogRepo) SkipReasons(ctx context.Context) ([]*secondary.SkipReasonRecord, error) {
	return nil, nil
}

// mockFileManager tracks mutation calls without touching disk.
type mockFileManager struct {
	mu           sync.Mutex
	scratchSeq   int
	replaced     [][2]string
	copied       [][2]string
	removed      []string
	staged       []string
	replaceErr   error
	keepCopyErr  error
	stageErr     error
}

func (m *mockFileManager) ScratchPath(ext string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scratchSeq++
	return fmt.Sprintf("/scratch/work_%d%s", m.scratchSeq, ext)
}

func (m *mockFileManager) StageLocal(path string) (string, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stageErr != nil {
		return "", nil, m.stageErr
	}
	m.staged = append(m.staged, path)
	return path, func() {}, nil
}

func (m *mockFileManager) SafeReplace(originalPath, newContentPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = append(m.replaced, [2]string{originalPath, newContentPath})
	return nil
}

func (m *mockFileManager) KeepCopy(originalPath, newContentPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.keepCopyErr != nil {
		return "", m.keepCopyErr
	}
	m.copied = append(m.copied, [2]string{originalPath, newContentPath})
	return originalPath + ".compressed", nil
}

func (m *mockFileManager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	return nil
}

// mockTransformer simulates a backend.
type mockTransformer struct {
	mu        sync.Mutex
	calls     int
	err       error
	availErr  error
	onInvoke  func()
}

func (m *mockTransformer) Name() string { return "mock" }

func (m *mockTransformer) Available() error { return m.availErr }

func (m *mockTransformer) Transform(ctx context.Context, inputPath, outputPath string, params secondary.TransformParams) error {
	m.mu.Lock()
	m.calls++
	hook := m.onInvoke
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return m.err
}

func (m *mockTransformer) invocations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPageCounter returns a fixed page count.
type mockPageCounter struct {
	pages int
	err   error
}

func (m *mockPageCounter) PageCount(path string) (int, error) {
	return m.pages, m.err
}

// nullReporter discards all output.
type nullReporter struct{}

func (nullReporter) Infof(format string, args ...interface{})    {}
func (nullReporter) Successf(format string, args ...interface{}) {}
func (nullReporter) Warnf(format string, args ...interface{})    {}
func (nullReporter) Errorf(format string, args ...interface{})   {}

func testProfile() *primary.Profile {
	return &primary.Profile{
		ID:               1,
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
