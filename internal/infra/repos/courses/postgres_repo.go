package courses

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// PostgresRepository implements the same contract over Postgres for deployments
// where the course list must outlive the host.
type PostgresRepository struct {
	dsn string
	db  *sql.DB
}

func NewPostgresRepository(dsn string) *PostgresRepository {
	return &PostgresRepository{dsn: strings.TrimSpace(dsn)}
}

// NewPostgresRepositoryWithDB reuses an existing connection, so the courses and
// runs tables can share one metadata database.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Init() error {
	if r.db == nil {
		if r.dsn == "" {
			return fmt.Errorf("coach db dsn is required")
		}
		db, err := sql.Open("postgres", r.dsn)
		if err != nil {
			return err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return err
		}
		r.db = db
	}

	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		scenario_id TEXT,
		embed_url TEXT
	)`)
	return err
}

func (r *PostgresRepository) DB() *sql.DB { return r.db }

func (r *PostgresRepository) Load() ([]*domain.Course, error) {
	rows, err := r.db.Query(`
		SELECT id, title, description, scenario_id, embed_url
		FROM courses
		ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]*domain.Course, 0)
	for rows.Next() {
		var c domain.Course
		var scenarioID, embedURL sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &scenarioID, &embedURL); err != nil {
			return nil, err
		}
		if scenarioID.Valid {
			c.ScenarioID = scenarioID.String
		}
		if embedURL.Valid {
			c.EmbedURL = embedURL.String
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func (r *PostgresRepository) Save(courses []*domain.Course) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM courses`); err != nil {
		return err
	}

	for i, c := range courses {
		if _, err := tx.Exec(`
			INSERT INTO courses (id, position, title, description, scenario_id, embed_url)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			c.ID, i, c.Title, c.Description, nullable(c.ScenarioID), nullable(c.EmbedURL)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) Update(id string, patch *domain.CoursePatch) (bool, error) {
	var c domain.Course
	var scenarioID, embedURL sql.NullString
	err := r.db.QueryRow(`
		SELECT id, title, description, scenario_id, embed_url
		FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &scenarioID, &embedURL)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if scenarioID.Valid {
		c.ScenarioID = scenarioID.String
	}
	if embedURL.Valid {
		c.EmbedURL = embedURL.String
	}

	patch.Apply(&c)

	_, err = r.db.Exec(`
		UPDATE courses SET title = $1, description = $2, scenario_id = $3, embed_url = $4
		WHERE id = $5`,
		c.Title, c.Description, nullable(c.ScenarioID), nullable(c.EmbedURL), id)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PostgresRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM courses`)
	return err
}
