package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// ProfileRepo implements secondary.ProfileRepository using SQLite
type ProfileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new SQLite profile repository
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `id, max_depth, replace_original, compression_level, backend_id,
	min_saving_bytes, file_timeout_secs, pacing_interval, pacing_pause_secs,
	ocr_max_pages, max_kb_per_page, note, is_active, created_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*secondary.ProfileRecord, error) {
	var rec secondary.ProfileRecord
	var replace, active int
	var ceiling sql.NullFloat64
	var createdAt sql.NullString

	err := row.Scan(
		&rec.ID, &rec.MaxDepth, &replace, &rec.CompressionLevel, &rec.BackendID,
		&rec.MinSavingBytes, &rec.FileTimeoutSecs, &rec.PacingInterval,
		&rec.PacingPauseSecs, &rec.OCRMaxPages, &ceiling, &rec.Note,
		&active, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.ReplaceOriginal = replace == 1
	rec.IsActive = active == 1
	if ceiling.Valid {
		v := ceiling.Float64
		rec.MaxKBPerPage = &v
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.String
	}
	return &rec, nil
}

// GetActive retrieves the currently active profile
func (r *ProfileRepo) GetActive(ctx context.Context) (*secondary.ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE is_active = 1`, profileColumns)

	rec, err := scanProfile(r.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active profile: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a profile by its ID
func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (*secondary.ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = ?`, profileColumns)

	rec, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return rec, nil
}

// FindByParams retrieves a profile whose parameter tuple matches exactly.
// The page size ceiling is nullable so it needs an IS comparison.
func (r *ProfileRepo) FindByParams(ctx context.Context, params secondary.ProfileParams) (*secondary.ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles
		WHERE max_depth = ? AND replace_original = ? AND compression_level = ?
		  AND backend_id = ? AND min_saving_bytes = ? AND file_timeout_secs = ?
		  AND pacing_interval = ? AND pacing_pause_secs = ? AND ocr_max_pages = ?
		  AND max_kb_per_page IS ?`, profileColumns)

	replace := 0
	if params.ReplaceOriginal {
		replace = 1
	}
	var ceiling interface{}
	if params.MaxKBPerPage != nil {
		ceiling = *params.MaxKBPerPage
	}

	rec, err := scanProfile(r.db.QueryRowContext(ctx, query,
		params.MaxDepth, replace, params.CompressionLevel, params.BackendID,
		params.MinSavingBytes, params.FileTimeoutSecs, params.PacingInterval,
		params.PacingPauseSecs, params.OCRMaxPages, ceiling,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by params: %w", err)
	}
	return rec, nil
}

// Create inserts a new profile with the given parameters
func (r *ProfileRepo) Create(ctx context.Context, params secondary.ProfileParams, note string) (*secondary.ProfileRecord, error) {
	query := `INSERT INTO profiles (
		max_depth, replace_original, compression_level, backend_id,
		min_saving_bytes, file_timeout_secs, pacing_interval,
		pacing_pause_secs, ocr_max_pages, max_kb_per_page, note
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	replace := 0
	if params.ReplaceOriginal {
		replace = 1
	}
	var ceiling interface{}
	if params.MaxKBPerPage != nil {
		ceiling = *params.MaxKBPerPage
	}

	result, err := r.db.ExecContext(ctx, query,
		params.MaxDepth, replace, params.CompressionLevel, params.BackendID,
		params.MinSavingBytes, params.FileTimeoutSecs, params.PacingInterval,
		params.PacingPauseSecs, params.OCRMaxPages, ceiling, note,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile id: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Activate makes the given profile the single active one
func (r *ProfileRepo) Activate(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "UPDATE profiles SET is_active = 0 WHERE is_active = 1"); err != nil {
		return fmt.Errorf("failed to deactivate profiles: %w", err)
	}

	result, err := tx.ExecContext(ctx, "UPDATE profiles SET is_active = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check activation: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %d not found", id)
	}

	return tx.Commit()
}

// List retrieves all profiles, active first, newest next
func (r *ProfileRepo) List(ctx context.Context) ([]*secondary.ProfileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles ORDER BY is_active DESC, id DESC`, profileColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []*secondary.ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, rec)
	}
	return profiles, rows.Err()
}

// UpdateNote replaces the free-text note on a profile
func (r *ProfileRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	result, err := r.db.ExecContext(ctx, "UPDATE profiles SET note = ? WHERE id = ?", note, id)
	if err != nil {
		return fmt.Errorf("failed to update profile note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check note update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %d not found", id)
	}
	return nil
}

// Delete removes a profile. The active profile and profiles referenced
// by outcome records cannot be deleted.
func (r *ProfileRepo) Delete(ctx context.Context, id int64) error {
	var active int
	err := r.db.QueryRowContext(ctx, "SELECT is_active FROM profiles WHERE id = ?", id).Scan(&active)
	if err == sql.ErrNoRows {
		return fmt.Errorf("profile %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if active == 1 {
		return fmt.Errorf("cannot delete the active profile")
	}

	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM outcomes WHERE profile_id = ?", id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count profile records: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("cannot delete profile %d: %d records reference it", id, refs)
	}

	if _, err := r.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

var _ secondary.ProfileRepository = (*ProfileRepo)(nil)
