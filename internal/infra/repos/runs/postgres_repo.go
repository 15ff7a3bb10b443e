package runs

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: dsn}
}

// NewPostgresRepositoryWithDB shares an existing handle with the courses repo.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Init() error {
	if r.db == nil {
		db, err := sql.Open("postgres", r.dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			db.Close()
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
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ,
		error TEXT
	)`)
	return err
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

func (r *PostgresRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *PostgresRepository) Create(run *domain.PipelineRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}

	_, err := r.db.Exec(`
		INSERT INTO pipeline_runs (id, status, total, provisioned, skipped, failed, started_at, completed_at, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Status, run.Total, run.Provisioned, run.Skipped, run.Failed,
		run.StartedAt, completedAt, run.Error,
	)
	return err
}

func (r *PostgresRepository) Update(run *domain.PipelineRun) error {
	var completedAt interface{}
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}

	_, err := r.db.Exec(`
		UPDATE pipeline_runs SET
			status = $1, provisioned = $2, skipped = $3, failed = $4, completed_at = $5, error = $6
		WHERE id = $7`,
		run.Status, run.Provisioned, run.Skipped, run.Failed, completedAt, run.Error, run.ID,
	)
	return err
}

func (r *PostgresRepository) Get(id string) (*domain.PipelineRun, error) {
	row := r.db.QueryRow(`
		SELECT id, status, total, provisioned, skipped, failed, started_at, completed_at, error
		FROM pipeline_runs WHERE id = $1`, id)
	return scanPgRun(row)
}

func (r *PostgresRepository) List(limit int) ([]*domain.PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT id, status, total, provisioned, skipped, failed, started_at, completed_at, error
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.PipelineRun, 0, limit)
	for rows.Next() {
		run, err := scanPgRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanPgRun(row rowScanner) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	var startedAt time.Time
	var completedAt sql.NullTime
	var errorStr sql.NullString

	err := row.Scan(
		&run.ID, &run.Status, &run.Total, &run.Provisioned, &run.Skipped, &run.Failed,
		&startedAt, &completedAt, &errorStr,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt = startedAt
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if errorStr.Valid {
		run.Error = errorStr.String
	}
	return &run, nil
}
