package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Session describes one run of the experiment.
type Session struct {
	ID          string
	Participant string
	StartedAt   time.Time
	EndedAt     *time.Time
	Aborted     bool
}

// SQLiteStore keeps sessions and their trials in a single database file.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	session string
	now     func() time.Time
}

// timeLayout is fixed width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		participant TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		ended_at    TEXT,
		aborted     INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS trials (
		session_id           TEXT NOT NULL REFERENCES sessions(id),
		practicing           INTEGER NOT NULL,
		block_num            INTEGER NOT NULL,
		trial_num            INTEGER NOT NULL,
		block_type           TEXT NOT NULL,
		t1_time              INTEGER NOT NULL,
		t2_time              INTEGER NOT NULL,
		lag                  INTEGER NOT NULL,
		t1_identity          TEXT NOT NULL,
		t2_identity          TEXT NOT NULL,
		t1_identity_response TEXT NOT NULL,
		t1_identity_rt       TEXT NOT NULL,
		t2_identity_response TEXT NOT NULL,
		t2_identity_rt       TEXT NOT NULL,
		t1_colour            TEXT NOT NULL,
		t2_colour            TEXT NOT NULL,
		t1_ang_err           TEXT NOT NULL,
		t1_ang_err_rt        TEXT NOT NULL,
		t2_ang_err           TEXT NOT NULL,
		t2_ang_err_rt        TEXT NOT NULL,
		t1_wheel_rotation    INTEGER NOT NULL,
		t2_wheel_rotation    INTEGER NOT NULL,
		PRIMARY KEY (session_id, practicing, block_num, trial_num)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_participant ON sessions(participant);
	`
	_, err := s.db.Exec(schema)
	return err
}

// BeginSession registers a new session and makes it the target of Write.
func (s *SQLiteStore) BeginSession(ctx context.Context, participant string) (string, error) {
	id := s.newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, participant, started_at) VALUES (?, ?, ?)`,
		id, participant, formatTime(s.now()))
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	s.session = id
	return id, nil
}

// EndSession stamps the current session's end time.
func (s *SQLiteStore) EndSession(ctx context.Context, aborted bool) error {
	if s.session == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = ?, aborted = ? WHERE id = ?`,
		formatTime(s.now()), aborted, s.session)
	return err
}

func (s *SQLiteStore) Write(ctx context.Context, r Record) error {
	if r.SessionID == "" {
		r.SessionID = s.session
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO trials (
		session_id, practicing, block_num, trial_num, block_type,
		t1_time, t2_time, lag, t1_identity, t2_identity,
		t1_identity_response, t1_identity_rt, t2_identity_response, t2_identity_rt,
		t1_colour, t2_colour, t1_ang_err, t1_ang_err_rt, t2_ang_err, t2_ang_err_rt,
		t1_wheel_rotation, t2_wheel_rotation
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Practice, r.BlockNum, r.TrialNum, r.BlockType,
		r.T1Time, r.T2Time, r.Lag, r.T1Identity, r.T2Identity,
		r.T1IdentityResponse, r.T1IdentityRT, r.T2IdentityResponse, r.T2IdentityRT,
		r.T1Colour, r.T2Colour, r.T1AngErr, r.T1AngErrRT, r.T2AngErr, r.T2AngErrRT,
		r.T1WheelRotation, r.T2WheelRotation,
	)
	if err != nil {
		return fmt.Errorf("insert trial %d/%d: %w", r.BlockNum, r.TrialNum, err)
	}
	return nil
}

// Trials returns a session's records in presentation order.
func (s *SQLiteStore) Trials(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		t.session_id, se.participant, t.practicing, t.block_num, t.trial_num, t.block_type,
		t.t1_time, t.t2_time, t.lag, t.t1_identity, t.t2_identity,
		t.t1_identity_response, t.t1_identity_rt, t.t2_identity_response, t.t2_identity_rt,
		t.t1_colour, t.t2_colour, t.t1_ang_err, t.t1_ang_err_rt, t.t2_ang_err, t.t2_ang_err_rt,
		t.t1_wheel_rotation, t.t2_wheel_rotation
	FROM trials t JOIN sessions se ON se.id = t.session_id
	WHERE t.session_id = ?
	ORDER BY t.practicing DESC, t.block_num, t.trial_num`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.SessionID, &r.Participant, &r.Practice, &r.BlockNum, &r.TrialNum, &r.BlockType,
			&r.T1Time, &r.T2Time, &r.Lag, &r.T1Identity, &r.T2Identity,
			&r.T1IdentityResponse, &r.T1IdentityRT, &r.T2IdentityResponse, &r.T2IdentityRT,
			&r.T1Colour, &r.T2Colour, &r.T1AngErr, &r.T1AngErrRT, &r.T2AngErr, &r.T2AngErrRT,
			&r.T1WheelRotation, &r.T2WheelRotation,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Sessions lists all sessions, newest first.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant, started_at, ended_at, aborted FROM sessions ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			se      Session
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&se.ID, &se.Participant, &started, &ended, &se.Aborted); err != nil {
			return nil, err
		}
		se.StartedAt, _ = time.Parse(timeLayout, started)
		if ended.Valid {
			t, _ := time.Parse(timeLayout, ended.String)
			se.EndedAt = &t
		}
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
