package courses

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

// FileRepository keeps the course list in a single JSON (or YAML, by extension)
// document on disk. This is the store the CLI uses; its shape matches the JSON
// array the web player persists.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load() ([]*domain.Course, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Course{}, nil
		}
		return nil, err
	}

	var courses []*domain.Course
	if r.isYAML() {
		err = yaml.Unmarshal(data, &courses)
	} else {
		err = json.Unmarshal(data, &courses)
	}
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return courses, nil
}

func (r *FileRepository) Save(courses []*domain.Course) error {
	if courses == nil {
		courses = []*domain.Course{}
	}

	var (
		data []byte
		err  error
	)
	if r.isYAML() {
		data, err = yaml.Marshal(courses)
	} else {
		data, err = json.MarshalIndent(courses, "", "  ")
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *FileRepository) Update(id string, patch *domain.CoursePatch) (bool, error) {
	courses, err := r.Load()
	if err != nil {
		return false, err
	}

	found := false
	for _, c := range courses {
		if c.ID == id {
			patch.Apply(c)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, r.Save(courses)
}

func (r *FileRepository) Clear() error {
	err := os.Remove(r.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (r *FileRepository) isYAML() bool {
	ext := filepath.Ext(r.path)
	return ext == ".yaml" || ext == ".yml"
}
