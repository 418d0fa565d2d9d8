package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/pdfpress/internal/core/pathkey"
	"github.com/example/pdfpress/internal/ports/secondary"
)

// OutcomeRepo implements secondary.OutcomeRepository using SQLite
type OutcomeRepo struct {
	db *sql.DB
}

// NewOutcomeRepo creates a new SQLite outcome repository
func NewOutcomeRepo(db *sql.DB) *OutcomeRepo {
	return &OutcomeRepo{db: db}
}

const outcomeColumns = `o.id, o.path, o.success, COALESCE(s.name, ''), o.detail,
	o.profile_id, o.saved_kb, o.pages, o.origin_kb, o.processed_at`

func scanOutcome(row interface{ Scan(...interface{}) error }) (*secondary.OutcomeRecord, error) {
	var rec secondary.OutcomeRecord
	var success int
	var pages sql.NullInt64
	var originKB sql.NullFloat64
	var processedAt sql.NullString

	err := row.Scan(
		&rec.ID, &rec.Path, &success, &rec.Reason, &rec.Detail,
		&rec.ProfileID, &rec.SavedKB, &pages, &originKB, &processedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Success = success == 1
	if pages.Valid {
		p := int(pages.Int64)
		rec.Pages = &p
	}
	if originKB.Valid {
		v := originKB.Float64
		rec.OriginKB = &v
	}
	if processedAt.Valid {
		rec.ProcessedAt = processedAt.String
	}
	return &rec, nil
}

// FindByPath retrieves the record for a normalized path
func (r *OutcomeRepo) FindByPath(ctx context.Context, path string) (*secondary.OutcomeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM outcomes o
		LEFT JOIN skip_reasons s ON s.id = o.skip_reason_id
		WHERE o.path = ?`, outcomeColumns)

	rec, err := scanOutcome(r.db.QueryRowContext(ctx, query, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find outcome: %w", err)
	}
	return rec, nil
}

// Create inserts an outcome record inside a transaction. The path
// column is unique, so a concurrent or repeated insert for the same
// path returns the record that won instead of an error.
func (r *OutcomeRepo) Create(ctx context.Context, rec *secondary.OutcomeRecord) (*secondary.OutcomeRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var reasonID interface{}
	if rec.Reason != "" {
		var id int64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM skip_reasons WHERE name = ?", rec.Reason,
		).Scan(&id)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unknown skip reason %q", rec.Reason)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve skip reason: %w", err)
		}
		reasonID = id
	}

	success := 0
	if rec.Success {
		success = 1
	}
	var pages interface{}
	if rec.Pages != nil {
		pages = *rec.Pages
	}
	var originKB interface{}
	if rec.OriginKB != nil {
		originKB = *rec.OriginKB
	}

	query := `INSERT INTO outcomes (path, success, skip_reason_id, detail, profile_id, saved_kb, pages, origin_kb)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		rec.Path, success, reasonID, rec.Detail, rec.ProfileID,
		rec.SavedKB, pages, originKB,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return r.FindByPath(ctx, rec.Path)
		}
		return nil, fmt.Errorf("failed to create outcome: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit outcome: %w", err)
	}
	return r.FindByPath(ctx, rec.Path)
}

// DeleteFailed removes every failure record from the store
func (r *OutcomeRepo) DeleteFailed(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM outcomes WHERE success = 0")
	if err != nil {
		return 0, fmt.Errorf("failed to delete failed outcomes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted outcomes: %w", err)
	}
	return int(n), nil
}

// NormalizePaths rewrites stored paths to canonical form. Records
// whose paths collapse onto an already-seen canonical path are
// removed; the record with the lowest id wins, matching the unique
// path guarantee the pipeline maintains for new records.
func (r *OutcomeRepo) NormalizePaths(ctx context.Context) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, "SELECT id, path FROM outcomes ORDER BY id")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list outcomes: %w", err)
	}

	type rewrite struct {
		id   int64
		path string
	}
	var rewrites []rewrite
	var removals []int64
	seen := make(map[string]int64)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			_ = rows.Close()
			return 0, 0, fmt.Errorf("failed to scan outcome: %w", err)
		}
		canonical := pathkey.Normalize(path)
		if _, ok := seen[canonical]; ok {
			removals = append(removals, id)
			continue
		}
		seen[canonical] = id
		if canonical != path {
			rewrites = append(rewrites, rewrite{id: id, path: canonical})
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, 0, fmt.Errorf("failed to read outcomes: %w", err)
	}
	_ = rows.Close()

	for _, id := range removals {
		if _, err := tx.ExecContext(ctx, "DELETE FROM outcomes WHERE id = ?", id); err != nil {
			return 0, 0, fmt.Errorf("failed to remove duplicate outcome: %w", err)
		}
	}
	for _, rw := range rewrites {
		if _, err := tx.ExecContext(ctx, "UPDATE outcomes SET path = ? WHERE id = ?", rw.path, rw.id); err != nil {
			return 0, 0, fmt.Errorf("failed to rewrite outcome path: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit normalization: %w", err)
	}
	return len(rewrites), len(removals), nil
}

// Summary aggregates the whole outcome store
func (r *OutcomeRepo) Summary(ctx context.Context) (*secondary.OutcomeSummary, error) {
	summary := &secondary.OutcomeSummary{ByReason: make(map[string]int)}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(success), 0),
		       COALESCE(SUM(CASE WHEN success = 1 THEN saved_kb ELSE 0 END), 0),
		       COALESCE(MIN(processed_at), ''),
		       COALESCE(MAX(processed_at), '')
		FROM outcomes`,
	).Scan(&summary.Total, &summary.Succeeded, &summary.SavedKB,
		&summary.FirstRecord, &summary.LatestRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize outcomes: %w", err)
	}
	summary.Failed = summary.Total - summary.Succeeded

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.name, COUNT(*)
		FROM outcomes o
		JOIN skip_reasons s ON s.id = o.skip_reason_id
		WHERE o.success = 0
		GROUP BY s.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reason count: %w", err)
		}
		summary.ByReason[name] = count
	}
	return summary, rows.Err()
}

// CountByProfile reports how many records reference a profile
func (r *OutcomeRepo) CountByProfile(ctx context.Context, profileID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM outcomes WHERE profile_id = ?", profileID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count outcomes: %w", err)
	}
	return count, nil
}

var _ secondary.OutcomeRepository = (*OutcomeRepo)(nil)
