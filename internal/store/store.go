// Package store persists produced incident records in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"emergency-call-analysis/internal/models"
)

// ErrNotFound is returned when no incident exists for a call id.
var ErrNotFound = errors.New("incident not found")

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	call_id        TEXT PRIMARY KEY,
	timestamp      INTEGER NOT NULL,
	phone_number   TEXT NOT NULL DEFAULT '',
	audio_path     TEXT NOT NULL DEFAULT '',
	language       TEXT NOT NULL DEFAULT '',
	transcript     TEXT NOT NULL DEFAULT '',
	emergency_type TEXT NOT NULL,
	priority       TEXT NOT NULL,
	confidence     REAL NOT NULL DEFAULT 0,
	keywords_json  TEXT NOT NULL DEFAULT '[]',
	location_text  TEXT NOT NULL DEFAULT '',
	latitude       REAL,
	longitude      REAL,
	status         TEXT NOT NULL DEFAULT 'new',
	created_at     INTEGER NOT NULL DEFAULT (strftime('%s','now')),
	updated_at     INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
CREATE INDEX IF NOT EXISTS idx_incidents_status ON incidents(status);
CREATE INDEX IF NOT EXISTS idx_incidents_type ON incidents(emergency_type);
`

// Store wraps a SQLite database of incidents.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open incident db: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply incident schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or replaces the record for its call id.
func (s *Store) Save(ctx context.Context, rec models.IncidentRecord) error {
	keywords, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO incidents (
			call_id, timestamp, phone_number, audio_path, language,
			transcript, emergency_type, priority, confidence,
			keywords_json, location_text, latitude, longitude, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(call_id) DO UPDATE SET
			timestamp = excluded.timestamp,
			transcript = excluded.transcript,
			emergency_type = excluded.emergency_type,
			priority = excluded.priority,
			confidence = excluded.confidence,
			keywords_json = excluded.keywords_json,
			location_text = excluded.location_text,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			status = excluded.status,
			updated_at = strftime('%s','now')`,
		rec.CallID, rec.Timestamp, rec.PhoneNumber, rec.AudioPath, rec.Language,
		rec.Transcript, rec.EmergencyType, rec.Priority, rec.Confidence,
		string(keywords), rec.LocationText, rec.Latitude, rec.Longitude, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("save incident %s: %w", rec.CallID, err)
	}
	return nil
}

const selectColumns = `
	call_id, timestamp, phone_number, audio_path, language,
	transcript, emergency_type, priority, confidence,
	keywords_json, location_text, latitude, longitude, status`

// Get returns the incident for a call id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, callID string) (models.IncidentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM incidents WHERE call_id = ?`, callID)

	rec, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.IncidentRecord{}, ErrNotFound
	}
	if err != nil {
		return models.IncidentRecord{}, fmt.Errorf("get incident %s: %w", callID, err)
	}
	return rec, nil
}

// List returns incidents newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status string, limit int) ([]models.IncidentRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + selectColumns + ` FROM incidents`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []models.IncidentRecord
	for rows.Next() {
		rec, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateStatus moves an incident through its dispatch lifecycle.
func (s *Store) UpdateStatus(ctx context.Context, callID, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE incidents SET status = ?, updated_at = strftime('%s','now') WHERE call_id = ?`,
		status, callID)
	if err != nil {
		return fmt.Errorf("update incident %s: %w", callID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(row scanner) (models.IncidentRecord, error) {
	var rec models.IncidentRecord
	var keywords string
	err := row.Scan(
		&rec.CallID, &rec.Timestamp, &rec.PhoneNumber, &rec.AudioPath, &rec.Language,
		&rec.Transcript, &rec.EmergencyType, &rec.Priority, &rec.Confidence,
		&keywords, &rec.LocationText, &rec.Latitude, &rec.Longitude, &rec.Status,
	)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
		return rec, fmt.Errorf("decode keywords: %w", err)
	}
	return rec, nil
}
