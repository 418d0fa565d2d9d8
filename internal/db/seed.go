package db

import (
	"database/sql"
	"fmt"
)

// SeedCatalogs populates the backend and skip reason catalogs. Inserts
// are idempotent so the seed can run on every startup.
func SeedCatalogs(database *sql.DB) error {
	backends := []struct {
		id          int64
		name        string
		description string
		supportsOCR bool
	}{
		{1, "ghostscript", "Ghostscript with full downsampling flags", false},
		{2, "ghostscript-standard", "Ghostscript with preset defaults only", false},
		{3, "ghostscript-image-only", "Ghostscript downsampling raster content only", false},
		{4, "tesseract-ocr", "Rasterize and recognize text with Tesseract", true},
		{5, "tesseract-ghostscript", "Tesseract OCR followed by Ghostscript compression", true},
	}
	for _, b := range backends {
		ocr := 0
		if b.supportsOCR {
			ocr = 1
		}
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO backends (id, name, description, supports_ocr) VALUES (?, ?, ?, ?)",
			b.id, b.name, b.description, ocr,
		); err != nil {
			return fmt.Errorf("seed backends: %w", err)
		}
	}

	reasons := []struct{ name, note string }{
		{"shrank negatively", "Output saving fell short of the profile threshold"},
		{"timeout exceeded", "Transform ran past its time budget"},
		{"other", "Unclassified failure or filter"},
		{"page-size ceiling exceeded", "Average page size already under the ceiling"},
		{"below size floor", "File smaller than the minimum worth processing"},
	}
	for _, r := range reasons {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO skip_reasons (name, note) VALUES (?, ?)",
			r.name, r.note,
		); err != nil {
			return fmt.Errorf("seed skip reasons: %w", err)
		}
	}

	return nil
}

// EnsureDefaultProfile creates and activates a default profile when no
// profile is active, so a fresh install can run immediately.
func EnsureDefaultProfile(database *sql.DB) error {
	var active int
	if err := database.QueryRow("SELECT COUNT(*) FROM profiles WHERE is_active = 1").Scan(&active); err != nil {
		return fmt.Errorf("check active profile: %w", err)
	}
	if active > 0 {
		return nil
	}

	_, err := database.Exec(`
		INSERT INTO profiles (
			max_depth, replace_original, compression_level, backend_id,
			min_saving_bytes, file_timeout_secs, pacing_interval,
			pacing_pause_secs, ocr_max_pages, max_kb_per_page, note, is_active
		) VALUES (-1, 1, 2, 1, 1024, 35, 350, 9, 120, NULL, 'default', 1)
		ON CONFLICT DO NOTHING`,
	)
	if err != nil {
		return fmt.Errorf("seed default profile: %w", err)
	}

	// The params may match an existing inactive profile. Activate it.
	var activeNow int
	if err := database.QueryRow("SELECT COUNT(*) FROM profiles WHERE is_active = 1").Scan(&activeNow); err != nil {
		return fmt.Errorf("check active profile: %w", err)
	}
	if activeNow == 0 {
		if _, err := database.Exec(
			"UPDATE profiles SET is_active = 1 WHERE id = (SELECT MIN(id) FROM profiles)",
		); err != nil {
			return fmt.Errorf("activate default profile: %w", err)
		}
	}
	return nil
}
