package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/joblens/internal/model"
)

var _ model.JobStore = (*SQLiteStore)(nil)

// DefaultSQLiteDSN is a shared-cache in-memory database: jobs live only as
// long as the process holds the connection.
const DefaultSQLiteDSN = "file:joblens?mode=memory&cache=shared"

// SQLiteStore keeps jobs in a SQLite table, by default in memory.
type SQLiteStore struct {
	db      *sql.DB
	maxJobs int
}

// NewSQLiteStore opens the database at dsn and ensures the jobs table exists.
// An empty dsn selects DefaultSQLiteDSN.
func NewSQLiteStore(dsn string, maxJobs int) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// An in-memory database disappears when its last connection closes, so
	// keep exactly one open.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS jobs (
		seq     INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id  TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db, maxJobs: maxJobs}, nil
}

// Put stores job under its id, replacing any previous payload.
func (s *SQLiteStore) Put(job model.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding job %s: %w", job.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO jobs (job_id, payload) VALUES (?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET payload = excluded.payload`,
		job.ID, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storing job %s: %w", job.ID, err)
	}

	if s.maxJobs > 0 {
		_, err = s.db.Exec(
			`DELETE FROM jobs WHERE seq NOT IN (SELECT seq FROM jobs ORDER BY seq DESC LIMIT ?)`,
			s.maxJobs,
		)
		if err != nil {
			return fmt.Errorf("trimming jobs to %d: %w", s.maxJobs, err)
		}
	}
	return nil
}

// Get returns the job with the given id or model.ErrJobNotFound.
func (s *SQLiteStore) Get(id string) (model.Job, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM jobs WHERE job_id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("loading job %s: %w", id, err)
	}

	var job model.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return model.Job{}, fmt.Errorf("decoding job %s: %w", id, err)
	}
	return job, nil
}

// Clear deletes every job.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM jobs"); err != nil {
		return fmt.Errorf("clearing jobs: %w", err)
	}
	return nil
}

// Size returns the number of stored jobs.
func (s *SQLiteStore) Size() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
