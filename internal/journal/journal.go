// Package journal keeps a local record of every submitted attempt. The
// submit flow deliberately never blocks the user on a backend failure, so
// this journal is the one place a masked persistence failure is still
// visible afterwards.
package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/examportal/examterm/internal/attempt"
	"github.com/examportal/examterm/internal/model"
)

// Entry is one journaled attempt.
type Entry struct {
	ID           string
	UserID       int64
	ExamID       int64
	ExamTitle    string
	SessionID    string
	Score        int
	TotalMarks   int
	Percentage   float64
	Persisted    bool
	Degradations string
	SubmittedAt  time.Time
}

// Journal is a SQLite-backed attempt log.
type Journal struct {
	db *sql.DB
}

// Open opens (and if needed creates) the journal database at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		path = "examterm.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	journal := &Journal{db: db}
	if err := journal.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) initSchema(ctx context.Context) error {
	_, err := j.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		exam_id INTEGER NOT NULL,
		exam_title TEXT NOT NULL,
		session_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		total_marks INTEGER NOT NULL,
		percentage REAL NOT NULL,
		persisted INTEGER NOT NULL,
		degradations TEXT NOT NULL DEFAULT '',
		submitted_at_unix INTEGER NOT NULL
	);`)
	return err
}

// Record journals one submission outcome. id should be unique per attempt
// (the caller passes a fresh UUID).
func (j *Journal) Record(ctx context.Context, id string, userID int64, exam model.Exam, outcome attempt.Outcome) error {
	persisted := 0
	if outcome.ResultPersisted {
		persisted = 1
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO attempts
			(id, user_id, exam_id, exam_title, session_id, score, total_marks, percentage, persisted, degradations, submitted_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, exam.ID, exam.Title, outcome.Result.SessionID,
		outcome.Summary.Score, outcome.Summary.TotalMarks, outcome.Summary.Percentage,
		persisted, strings.Join(outcome.Degradations, "; "), time.Now().Unix(),
	)
	return err
}

// ListByUser returns a user's journaled attempts, newest first.
func (j *Journal) ListByUser(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, user_id, exam_id, exam_title, session_id, score, total_marks, percentage, persisted, degradations, submitted_at_unix
		 FROM attempts
		 WHERE user_id = ?
		 ORDER BY submitted_at_unix DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var persisted int
		var submittedAt int64
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ExamID, &entry.ExamTitle, &entry.SessionID,
			&entry.Score, &entry.TotalMarks, &entry.Percentage, &persisted,
			&entry.Degradations, &submittedAt,
		); err != nil {
			return nil, err
		}
		entry.Persisted = persisted == 1
		entry.SubmittedAt = time.Unix(submittedAt, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
