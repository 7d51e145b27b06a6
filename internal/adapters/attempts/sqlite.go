package attempts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mindora/acumen/internal/domain/perf"
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id           TEXT PRIMARY KEY,
	question_id  TEXT NOT NULL,
	student_id   TEXT NOT NULL,
	score_ratio  REAL NOT NULL,
	time_taken   REAL NOT NULL,
	answer_text  TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_question ON attempts (question_id, submitted_at);
`

// SQLiteStore implements Store on a sqlite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the attempt database at path, creating the schema if
// needed. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open attempt db: %w", err)
	}
	// sqlite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent batch recording.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init attempt db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record appends one attempt.
func (s *SQLiteStore) Record(ctx context.Context, a perf.Attempt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, question_id, student_id, score_ratio, time_taken, answer_text, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.QuestionID, a.StudentID, a.ScoreRatio, a.TimeTaken, a.AnswerText, a.SubmittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record attempt %s: %w", a.ID, err)
	}
	return nil
}

// ByQuestion returns every attempt for a question in submission order.
func (s *SQLiteStore) ByQuestion(ctx context.Context, questionID string) ([]perf.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, student_id, score_ratio, time_taken, answer_text, submitted_at
		 FROM attempts WHERE question_id = ? ORDER BY submitted_at, id`,
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts for %s: %w", questionID, err)
	}
	defer rows.Close()

	var out []perf.Attempt
	for rows.Next() {
		var a perf.Attempt
		var submitted time.Time
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.StudentID, &a.ScoreRatio, &a.TimeTaken, &a.AnswerText, &submitted); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.SubmittedAt = submitted
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Questions lists the distinct question ids with at least one attempt.
func (s *SQLiteStore) Questions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT question_id FROM attempts ORDER BY question_id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
