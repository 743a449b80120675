// Package calstore indexes produced master flats in a sqlite database
// so reductions are traceable: which inputs, which options, where the
// output landed.
package calstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open opens (or creates) the calibration index at path. The base
// schema is created on the spot; MigrateUp applies later revisions.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS master_flats (
			id             TEXT PRIMARY KEY,
			created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			instrument     TEXT,
			n_frames       BIGINT,
			nx             BIGINT,
			ny             BIGINT,
			illum_start    BIGINT,
			illum_end      BIGINT,
			threshold      DOUBLE,
			response_cor   BOOLEAN,
			smooth         BOOLEAN,
			npix           BIGINT,
			output_path    TEXT
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// MasterFlat is one produced flat and the settings that built it.
type MasterFlat struct {
	ID          string
	CreatedAt   time.Time
	Instrument  string
	NFrames     int
	NX, NY      int
	IllumStart  *int
	IllumEnd    *int
	Threshold   float64
	ResponseCor bool
	Smooth      bool
	NPix        int
	OutputPath  string
}

// RecordMasterFlat inserts a master flat row. An empty ID gets a fresh
// uuid, written back into mf.
func (db *DB) RecordMasterFlat(mf *MasterFlat) error {
	if mf.ID == "" {
		mf.ID = uuid.New().String()
	}

	var illumStart, illumEnd sql.NullInt64
	if mf.IllumStart != nil {
		illumStart = sql.NullInt64{Int64: int64(*mf.IllumStart), Valid: true}
	}
	if mf.IllumEnd != nil {
		illumEnd = sql.NullInt64{Int64: int64(*mf.IllumEnd), Valid: true}
	}

	_, err := db.Exec(
		`INSERT INTO master_flats (
			id, instrument, n_frames, nx, ny, illum_start, illum_end,
			threshold, response_cor, smooth, npix, output_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mf.ID, mf.Instrument, mf.NFrames, mf.NX, mf.NY, illumStart, illumEnd,
		mf.Threshold, mf.ResponseCor, mf.Smooth, mf.NPix, mf.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("record master flat: %w", err)
	}
	return nil
}

// ListMasterFlats returns up to limit master flats, newest first.
func (db *DB) ListMasterFlats(limit int) ([]MasterFlat, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT id, created_at, instrument, n_frames, nx, ny,
			illum_start, illum_end, threshold, response_cor, smooth, npix, output_path
		FROM master_flats ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list master flats: %w", err)
	}
	defer rows.Close()

	var out []MasterFlat
	for rows.Next() {
		var mf MasterFlat
		var created string
		var illumStart, illumEnd sql.NullInt64
		if err := rows.Scan(
			&mf.ID, &created, &mf.Instrument, &mf.NFrames, &mf.NX, &mf.NY,
			&illumStart, &illumEnd, &mf.Threshold, &mf.ResponseCor, &mf.Smooth,
			&mf.NPix, &mf.OutputPath,
		); err != nil {
			return nil, fmt.Errorf("scan master flat: %w", err)
		}
		mf.CreatedAt = parseTimestamp(created)
		if illumStart.Valid {
			v := int(illumStart.Int64)
			mf.IllumStart = &v
		}
		if illumEnd.Valid {
			v := int(illumEnd.Int64)
			mf.IllumEnd = &v
		}
		out = append(out, mf)
	}
	return out, rows.Err()
}

// parseTimestamp handles the formats sqlite emits for
// CURRENT_TIMESTAMP columns. Unparseable values yield the zero time.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// RecordInputFiles stores the input frame list for a master flat. The
// input_files column arrives with migration 0001, so callers must run
// MigrateUp first.
func (db *DB) RecordInputFiles(id string, files []string) error {
	_, err := db.Exec(`UPDATE master_flats SET input_files = ? WHERE id = ?`,
		strings.Join(files, ","), id)
	if err != nil {
		return fmt.Errorf("record input files: %w", err)
	}
	return nil
}
