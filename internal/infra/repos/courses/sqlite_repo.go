package courses

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// SQLiteRepository stores the course list in a local SQLite file. The position
// column preserves the list order across full replaces.
type SQLiteRepository struct {
	dbPath string
	db     *sql.DB
}

func NewSQLiteRepository(dbPath string) *SQLiteRepository {
	return &SQLiteRepository{dbPath: dbPath}
}

func (r *SQLiteRepository) Init() error {
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

	_, err = r.db.Exec(`
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

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load() ([]*domain.Course, error) {
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

func (r *SQLiteRepository) Save(courses []*domain.Course) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM courses`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO courses (id, position, title, description, scenario_id, embed_url)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range courses {
		if _, err := stmt.Exec(c.ID, i, c.Title, c.Description, nullable(c.ScenarioID), nullable(c.EmbedURL)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Update(id string, patch *domain.CoursePatch) (bool, error) {
	var c domain.Course
	var scenarioID, embedURL sql.NullString
	err := r.db.QueryRow(`
		SELECT id, title, description, scenario_id, embed_url
		FROM courses WHERE id = ?`, id).
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
		UPDATE courses SET title = ?, description = ?, scenario_id = ?, embed_url = ?
		WHERE id = ?`,
		c.Title, c.Description, nullable(c.ScenarioID), nullable(c.EmbedURL), id)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLiteRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM courses`)
	return err
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
