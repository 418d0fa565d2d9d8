package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pdfpress/internal/ports/secondary"
)

// CatalogRepo implements secondary.CatalogRepository using SQLite
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo creates a new SQLite catalog repository
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// BackendByID retrieves a backend by its catalog ID
func (r *CatalogRepo) BackendByID(ctx context.Context, id int64) (*secondary.BackendRecord, error) {
	query := `SELECT id, name, description, supports_ocr FROM backends WHERE id = ?`

	var rec secondary.BackendRecord
	var supportsOCR int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.Name, &rec.Description, &supportsOCR)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backend: %w", err)
	}
	rec.SupportsOCR = supportsOCR == 1
	return &rec, nil
}

// Backends lists all catalog backends ordered by ID
func (r *CatalogRepo) Backends(ctx context.Context) ([]*secondary.BackendRecord, error) {
	query := `SELECT id, name, description, supports_ocr FROM backends ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list backends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var backends []*secondary.BackendRecord
	for rows.Next() {
		var rec secondary.BackendRecord
		var supportsOCR int
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &supportsOCR); err != nil {
			return nil, fmt.Errorf("failed to scan backend: %w", err)
		}
		rec.SupportsOCR = supportsOCR == 1
		backends = append(backends, &rec)
	}
	return backends, rows.Err()
}

// SkipReasonByName retrieves a skip reason by its label
func (r *CatalogRepo) SkipReasonByName(ctx context.Context, name string) (*secondary.SkipReasonRecord, error) {
	query := `SELECT id, name, note FROM skip_reasons WHERE name = ?`

	var rec secondary.SkipReasonRecord
	err := r.db.QueryRowContext(ctx, query, name).Scan(&rec.ID, &rec.Name, &rec.Note)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get skip reason: %w", err)
	}
	return &rec, nil
}

// SkipReasons lists all catalog skip reasons ordered by ID
func (r *CatalogRepo) SkipReasons(ctx context.Context) ([]*secondary.SkipReasonRecord, error) {
	query := `SELECT id, name, note FROM skip_reasons ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list skip reasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reasons []*secondary.SkipReasonRecord
	for rows.Next() {
		var rec secondary.SkipReasonRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Note); err != nil {
			return nil, fmt.Errorf("failed to scan skip reason: %w", err)
		}
		reasons = append(reasons, &rec)
	}
	return reasons, rows.Err()
}

var _ secondary.CatalogRepository = (*CatalogRepo)(nil)
