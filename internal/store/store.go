// Package store handles SQLite persistence of editing projects.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cutline/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var (
	// ErrProjectNotFound is returned when no project matches an id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrAmbiguousID is returned when an id prefix matches several projects.
	ErrAmbiguousID = errors.New("ambiguous project id")
)

// Store wraps SQLite access for projects.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps autosaves from the UI serialized.
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			export_settings TEXT NOT NULL,
			tts_settings TEXT NOT NULL,
			statistics TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS speakers (
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			avatar TEXT NOT NULL,
			PRIMARY KEY (project_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS segments (
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			start_sec REAL NOT NULL,
			end_sec REAL NOT NULL,
			text TEXT NOT NULL,
			speaker_id TEXT NOT NULL,
			confidence REAL NOT NULL,
			is_editable INTEGER NOT NULL,
			PRIMARY KEY (project_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS regen_log (
			id INTEGER PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			segment_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			original_text TEXT NOT NULL,
			new_text TEXT NOT NULL,
			tts_settings TEXT NOT NULL,
			audio_generated INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_regen_log_project ON regen_log(project_id, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveProject writes the project with its speakers and segments, replacing
// any earlier version. A project without an id gets a new one. UpdatedAt is
// set to the save time and CreatedAt is filled in on first save.
func (s *Store) SaveProject(ctx context.Context, p *model.Project) (err error) {
	now := s.now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	exportJSON, err := json.Marshal(p.Export)
	if err != nil {
		return fmt.Errorf("encode export settings: %w", err)
	}
	ttsJSON, err := json.Marshal(p.TTS)
	if err != nil {
		return fmt.Errorf("encode tts settings: %w", err)
	}
	var statsJSON sql.NullString
	if p.Statistics != nil {
		data, err := json.Marshal(p.Statistics)
		if err != nil {
			return fmt.Errorf("encode statistics: %w", err)
		}
		statsJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, source, created_at, updated_at, export_settings, tts_settings, statistics)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			source = excluded.source,
			updated_at = excluded.updated_at,
			export_settings = excluded.export_settings,
			tts_settings = excluded.tts_settings,
			statistics = excluded.statistics`,
		p.ID, p.Name, p.Source,
		p.CreatedAt.Format(time.RFC3339Nano),
		p.UpdatedAt.Format(time.RFC3339Nano),
		string(exportJSON), string(ttsJSON), statsJSON,
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM speakers WHERE project_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM segments WHERE project_id = ?`, p.ID); err != nil {
		return err
	}

	if err = insertSpeakers(ctx, tx, p.ID, p.Speakers); err != nil {
		return err
	}
	if err = insertSegments(ctx, tx, p.ID, p.Segments); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSpeakers(ctx context.Context, tx *sql.Tx, projectID string, speakers []*model.Speaker) error {
	if len(speakers) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO speakers (project_id, id, position, name, color, avatar) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, sp := range speakers {
		if _, err := stmt.ExecContext(ctx, projectID, sp.ID, i, sp.Name, sp.Color, sp.Avatar); err != nil {
			return fmt.Errorf("insert speaker %s: %w", sp.ID, err)
		}
	}
	return nil
}

func insertSegments(ctx context.Context, tx *sql.Tx, projectID string, segments []model.Segment) error {
	if len(segments) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO segments (project_id, id, position, start_sec, end_sec, text, speaker_id, confidence, is_editable)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, seg := range segments {
		if _, err := stmt.ExecContext(ctx, projectID, seg.ID, i, seg.Start, seg.End, seg.Text, seg.SpeakerID(), seg.Confidence, seg.IsEditable); err != nil {
			return fmt.Errorf("insert segment %s: %w", seg.ID, err)
		}
	}
	return nil
}

// LoadProject reads a project with its speakers and segments. Segments
// reference the loaded speaker records; an unknown speaker id leaves the
// segment without a speaker.
func (s *Store) LoadProject(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	var createdAt, updatedAt, exportJSON, ttsJSON string
	var statsJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, source, created_at, updated_at, export_settings, tts_settings, statistics
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Source, &createdAt, &updatedAt, &exportJSON, &ttsJSON, &statsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return model.Project{}, err
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.Project{}, err
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return model.Project{}, err
	}
	if err := json.Unmarshal([]byte(exportJSON), &p.Export); err != nil {
		return model.Project{}, fmt.Errorf("decode export settings: %w", err)
	}
	if err := json.Unmarshal([]byte(ttsJSON), &p.TTS); err != nil {
		return model.Project{}, fmt.Errorf("decode tts settings: %w", err)
	}
	if statsJSON.Valid {
		var st model.TranscriptionStatistics
		if err := json.Unmarshal([]byte(statsJSON.String), &st); err != nil {
			return model.Project{}, fmt.Errorf("decode statistics: %w", err)
		}
		p.Statistics = &st
	}

	if p.Speakers, err = s.loadSpeakers(ctx, id); err != nil {
		return model.Project{}, err
	}
	if p.Segments, err = s.loadSegments(ctx, id, p.Speakers); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (s *Store) loadSpeakers(ctx context.Context, projectID string) ([]*model.Speaker, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, avatar FROM speakers WHERE project_id = ? ORDER BY position ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var speakers []*model.Speaker
	for rows.Next() {
		sp := &model.Speaker{}
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Color, &sp.Avatar); err != nil {
			return nil, err
		}
		speakers = append(speakers, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return speakers, nil
}

func (s *Store) loadSegments(ctx context.Context, projectID string, speakers []*model.Speaker) ([]model.Segment, error) {
	byID := make(map[string]*model.Speaker, len(speakers))
	for _, sp := range speakers {
		byID[sp.ID] = sp
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, start_sec, end_sec, text, speaker_id, confidence, is_editable
		 FROM segments WHERE project_id = ? ORDER BY position ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var segments []model.Segment
	for rows.Next() {
		var seg model.Segment
		var speakerID string
		if err := rows.Scan(&seg.ID, &seg.Start, &seg.End, &seg.Text, &speakerID, &seg.Confidence, &seg.IsEditable); err != nil {
			return nil, err
		}
		seg.Speaker = byID[speakerID]
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

// ResolveID expands a unique id prefix to a full project id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrProjectNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM projects WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// ListProjects returns project summaries, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.updated_at,
			(SELECT COUNT(*) FROM segments s WHERE s.project_id = p.id) AS segment_count
		 FROM projects p
		 ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.ProjectSummary
	for rows.Next() {
		var sum model.ProjectSummary
		var updatedAt string
		if err := rows.Scan(&sum.ID, &sum.Name, &updatedAt, &sum.SegmentCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, err
		}
		sum.UpdatedAt = parsed
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendRegen adds a regeneration entry to a project's log.
func (s *Store) AppendRegen(ctx context.Context, projectID string, entry model.RegenEntry) error {
	ttsJSON, err := json.Marshal(entry.TTSSettings)
	if err != nil {
		return fmt.Errorf("encode tts settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO regen_log (project_id, segment_id, created_at, original_text, new_text, tts_settings, audio_generated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectID, entry.SegmentID, entry.Timestamp.UTC().Format(time.RFC3339Nano),
		entry.OriginalText, entry.NewText, string(ttsJSON), entry.AudioGenerated,
	)
	return err
}

// ListRegen returns a project's regeneration log in append order.
func (s *Store) ListRegen(ctx context.Context, projectID string) ([]model.RegenEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segment_id, created_at, original_text, new_text, tts_settings, audio_generated
		 FROM regen_log WHERE project_id = ? ORDER BY id ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var out []model.RegenEntry
	for rows.Next() {
		var entry model.RegenEntry
		var createdAt, ttsJSON string
		if err := rows.Scan(&entry.SegmentID, &createdAt, &entry.OriginalText, &entry.NewText, &ttsJSON, &entry.AudioGenerated); err != nil {
			return nil, err
		}
		if entry.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ttsJSON), &entry.TTSSettings); err != nil {
			return nil, fmt.Errorf("decode tts settings: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
