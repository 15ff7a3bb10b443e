package runs

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

// NewSQLiteRepositoryWithDB shares an existing handle with the courses repo.
func NewSQLiteRepositoryWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Init() error {
	if r.db == nil {
		if dir := filepath.Dir(r.dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		db, err := sql.Open("sqlite3", r.dbPath)
		if err != nil {
			return err
		}
		r.db = db
	}

	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		total INTEGER NOT NULL,
		provisioned INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		error TEXT
	)`)
	return err
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Create(run *domain.PipelineRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}

	_, err := r.db.Exec(`
		INSERT INTO pipeline_runs (id, status, total, provisioned, skipped, failed, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Status, run.Total, run.Provisioned, run.Skipped, run.Failed,
		run.StartedAt.Format(time.RFC3339), completedAt, run.Error,
	)
	return err
}

func (r *SQLiteRepository) Update(run *domain.PipelineRun) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = run.CompletedAt.Format(time.RFC3339)
	}

	_, err := r.db.Exec(`
		UPDATE pipeline_runs SET
			status = ?, provisioned = ?, skipped = ?, failed = ?, completed_at = ?, error = ?
		WHERE id = ?`,
		run.Status, run.Provisioned, run.Skipped, run.Failed, completedAt, run.Error, run.ID,
	)
	return err
}

func (r *SQLiteRepository) Get(id string) (*domain.PipelineRun, error) {
	row := r.db.QueryRow(`
		SELECT id, status, total, provisioned, skipped, failed, started_at, completed_at, error
		FROM pipeline_runs WHERE id = ?`, id)
	return scanRun(row)
}

func (r *SQLiteRepository) List(limit int) ([]*domain.PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT id, status, total, provisioned, skipped, failed, started_at, completed_at, error
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.PipelineRun, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	var startedAtStr string
	var completedAtStr sql.NullString
	var errorStr sql.NullString

	err := row.Scan(
		&run.ID, &run.Status, &run.Total, &run.Provisioned, &run.Skipped, &run.Failed,
		&startedAtStr, &completedAtStr, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, startedAtStr)
	if completedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339, completedAtStr.String)
		run.CompletedAt = &t
	}
	if errorStr.Valid {
		run.Error = errorStr.String
	}
	return &run, nil
}
