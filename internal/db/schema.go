package db

// SchemaSQL defines the database schema for pdfpress
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS backends (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    supports_ocr INTEGER NOT NULL DEFAULT 0 CHECK (supports_ocr IN (0, 1))
);

CREATE TABLE IF NOT EXISTS skip_reasons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    note TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS profiles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    max_depth INTEGER NOT NULL DEFAULT -1 CHECK (max_depth >= -1),
    replace_original INTEGER NOT NULL DEFAULT 1 CHECK (replace_original IN (0, 1)),
    compression_level INTEGER NOT NULL DEFAULT 2 CHECK (compression_level BETWEEN 1 AND 3),
    backend_id INTEGER NOT NULL REFERENCES backends(id),
    min_saving_bytes INTEGER NOT NULL DEFAULT 1024 CHECK (min_saving_bytes BETWEEN 1 AND 10000),
    file_timeout_secs INTEGER NOT NULL DEFAULT 35 CHECK (file_timeout_secs BETWEEN 1 AND 3600),
    pacing_interval INTEGER NOT NULL DEFAULT 350 CHECK (pacing_interval BETWEEN 1 AND 1000),
    pacing_pause_secs INTEGER NOT NULL DEFAULT 9 CHECK (pacing_pause_secs BETWEEN 1 AND 60),
    ocr_max_pages INTEGER NOT NULL DEFAULT 120 CHECK (ocr_max_pages BETWEEN 1 AND 1000),
    max_kb_per_page REAL CHECK (max_kb_per_page IS NULL OR max_kb_per_page > 0),
    note TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 0 CHECK (is_active IN (0, 1)),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (max_depth, replace_original, compression_level, backend_id,
            min_saving_bytes, file_timeout_secs, pacing_interval,
            pacing_pause_secs, ocr_max_pages, max_kb_per_page)
);

CREATE TABLE IF NOT EXISTS outcomes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    success INTEGER NOT NULL CHECK (success IN (0, 1)),
    skip_reason_id INTEGER REFERENCES skip_reasons(id),
    detail TEXT NOT NULL DEFAULT '',
    profile_id INTEGER NOT NULL REFERENCES profiles(id),
    saved_kb REAL NOT NULL DEFAULT 0,
    pages INTEGER,
    origin_kb REAL,
    processed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_outcomes_profile ON outcomes(profile_id);
CREATE INDEX IF NOT EXISTS idx_outcomes_success ON outcomes(success);
`

// GetSchemaSQL returns the schema SQL for database initialization
func GetSchemaSQL() string {
	return SchemaSQL
}
